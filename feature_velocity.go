package vlist

import (
	"fmt"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// velocityIdleColor and velocityMaxColor anchor the gradient VelocityFeature
// blends across.
var (
	velocityIdleColor = colorful.Color{R: 0.4, G: 0.6, B: 1.0}
	velocityMaxColor  = colorful.Color{R: 1.0, G: 0.25, B: 0.2}
)

// VelocityFeature is the Velocity display enhancer: subscribes
// to velocity events, writes formatted speed to named elements, and
// optionally maintains a windowed average filtered to
// [minVelocityForAverage, maxVelocityForAverage] to exclude scrollbar-drag
// outliers.
type VelocityFeature struct {
	mu sync.Mutex

	cfg VelocityConfig

	speed float64
	hex   string

	samples []float64

	bus    *EventBus
	values map[string]string
}

// NewVelocityFeature constructs and wires the Velocity display enhancer.
func NewVelocityFeature(cfg VelocityConfig, bus *EventBus) *VelocityFeature {
	f := &VelocityFeature{cfg: cfg, bus: bus, values: make(map[string]string)}
	if bus != nil {
		bus.On(EventViewportVelocity, func(ev Event) {
			if len(ev.Data) == 0 {
				return
			}
			if speed, ok := ev.Data[0].(float64); ok {
				f.update(speed)
			}
		})
		bus.On(EventViewportIdle, func(Event) {
			f.update(0)
			if f.bus != nil {
				f.bus.Emit(EventVelocityIdle)
			}
		})
	}
	return f
}

func (f *VelocityFeature) Name() string       { return "velocity" }
func (f *VelocityFeature) Provides() []string { return []string{"velocity"} }
func (f *VelocityFeature) Requires() []string { return []string{"events"} }

func (f *VelocityFeature) update(speed float64) {
	f.mu.Lock()
	f.speed = speed
	maxRef := f.cfg.MaxVelocityForAverage
	if maxRef <= 0 {
		maxRef = 50
	}
	ratio := speed / maxRef
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	hex := velocityIdleColor.BlendHsv(velocityMaxColor, ratio).Hex()
	f.hex = hex

	if f.cfg.TrackAverage && speed >= f.cfg.MinVelocityForAverage && speed <= maxRef {
		f.samples = append(f.samples, speed)
		if len(f.samples) > 50 {
			f.samples = f.samples[1:]
		}
	}

	text := fmt.Sprintf("%.1f px/ms", speed)
	for name := range f.cfg.Elements {
		f.values[name] = text
	}
	onUpdate := f.cfg.OnVelocityUpdate
	f.mu.Unlock()

	if f.bus != nil {
		f.bus.Emit(EventVelocityChange, speed, hex)
	}
	if onUpdate != nil {
		onUpdate(speed, hex)
	}
}

// Speed returns the last reported smoothed velocity.
func (f *VelocityFeature) Speed() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speed
}

// Hex returns the current gradient color as a "#rrggbb" string.
func (f *VelocityFeature) Hex() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hex
}

// Average returns the mean of samples collected while TrackAverage is
// enabled, or 0 if none have been recorded yet.
func (f *VelocityFeature) Average() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.samples {
		sum += s
	}
	return sum / float64(len(f.samples))
}

// Text returns the formatted text last written for the named layout
// element.
func (f *VelocityFeature) Text(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}
