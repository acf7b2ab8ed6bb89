package vlist

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PagingStrategy selects how the Collection coordinator keys adapter reads.
// Exactly one is active per list.
type PagingStrategy string

const (
	StrategyOffset PagingStrategy = "offset"
	StrategyPage   PagingStrategy = "page"
	StrategyCursor PagingStrategy = "cursor"
)

// Orientation selects the scrolling axis.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// SelectionMode controls how many items can be selected at once.
type SelectionMode string

const (
	SelectionNone     SelectionMode = "none"
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// PlaceholderMode controls how PlaceholderProfile renders a synthetic
// field value.
type PlaceholderMode string

const (
	PlaceholderMasked    PlaceholderMode = "masked"
	PlaceholderSkeleton  PlaceholderMode = "skeleton"
	PlaceholderBlank     PlaceholderMode = "blank"
	PlaceholderDots      PlaceholderMode = "dots"
	PlaceholderRealistic PlaceholderMode = "realistic"
)

// PaginationConfig configures the Collection coordinator's paging strategy.
type PaginationConfig struct {
	Strategy PagingStrategy `yaml:"strategy" env:"PAGINATION_STRATEGY" validate:"omitempty,oneof=offset page cursor"`
	Limit    int            `yaml:"limit" env:"PAGINATION_LIMIT" validate:"gt=0"`
}

// VirtualConfig configures the Virtual manager.
type VirtualConfig struct {
	ItemSize int `yaml:"item_size" env:"VIRTUAL_ITEM_SIZE" validate:"gt=0"`
	Overscan int `yaml:"overscan" env:"VIRTUAL_OVERSCAN" validate:"gte=0"`
	// MaxScroll is the host's maximum usable scroll length in pixels before
	// the Scrollbar engages compression mode.
	MaxScroll int `yaml:"max_scroll" env:"VIRTUAL_MAX_SCROLL" validate:"gt=0"`
}

// MomentumConfig configures the velocity tracker integrated into Scrolling.
type MomentumConfig struct {
	Deceleration     float64       `yaml:"deceleration" env:"MOMENTUM_DECELERATION" validate:"gt=0,lte=1"`
	MinVelocity      float64       `yaml:"min_velocity" env:"MOMENTUM_MIN_VELOCITY" validate:"gte=0"`
	MaxDuration      time.Duration `yaml:"max_duration" env:"MOMENTUM_MAX_DURATION"`
	VelocityThreshold float64      `yaml:"velocity_threshold" env:"MOMENTUM_VELOCITY_THRESHOLD" validate:"gt=0"`
	Window           time.Duration `yaml:"window" env:"MOMENTUM_WINDOW"`
	Decay            float64       `yaml:"decay" env:"MOMENTUM_DECAY" validate:"gt=0,lt=1"`
}

// ScrollingConfig configures the Scrolling manager.
type ScrollingConfig struct {
	Orientation   Orientation    `yaml:"orientation" env:"SCROLLING_ORIENTATION" validate:"omitempty,oneof=vertical horizontal"`
	Animation     bool           `yaml:"animation" env:"SCROLLING_ANIMATION"`
	MeasureItems  bool           `yaml:"measure_items" env:"SCROLLING_MEASURE_ITEMS"`
	StopOnClick   bool           `yaml:"stop_on_click" env:"SCROLLING_STOP_ON_CLICK"`
	Sensitivity   float64        `yaml:"sensitivity" env:"SCROLLING_SENSITIVITY" validate:"gt=0"`
	Momentum      MomentumConfig `yaml:"momentum"`
}

// PerformanceConfig configures the Collection coordinator's concurrency and
// cancellation knobs.
type PerformanceConfig struct {
	CancelLoadThreshold   float64 `yaml:"cancel_load_threshold" env:"PERFORMANCE_CANCEL_LOAD_THRESHOLD" validate:"gt=0"`
	MaxConcurrentRequests int     `yaml:"max_concurrent_requests" env:"PERFORMANCE_MAX_CONCURRENT_REQUESTS" validate:"gt=0"`
	RecycleElements       bool    `yaml:"recycle_elements" env:"PERFORMANCE_RECYCLE_ELEMENTS"`
}

// RenderingConfig configures the Rendering manager.
type RenderingConfig struct {
	MaintainDomOrder bool `yaml:"maintain_dom_order" env:"RENDERING_MAINTAIN_DOM_ORDER"`
}

// SelectionConfig configures the Selection enhancer.
type SelectionConfig struct {
	Enabled          bool          `yaml:"enabled" env:"SELECTION_ENABLED"`
	Mode             SelectionMode `yaml:"mode" env:"SELECTION_MODE" validate:"omitempty,oneof=none single multiple"`
	SelectedIndices  []int         `yaml:"selected_indices"`
	RequireModifiers bool          `yaml:"require_modifiers" env:"SELECTION_REQUIRE_MODIFIERS"`
	AutoSelectFirst  bool          `yaml:"auto_select_first" env:"SELECTION_AUTO_SELECT_FIRST"`
}

// SearchConfig configures the Search enhancer.
type SearchConfig struct {
	ToggleButton string        `yaml:"toggle_button"`
	SearchBar    string        `yaml:"search_bar"`
	AutoReload   bool          `yaml:"auto_reload" env:"SEARCH_AUTO_RELOAD"`
	Debounce     time.Duration `yaml:"debounce" env:"SEARCH_DEBOUNCE"`
	MinLength    int           `yaml:"min_length" env:"SEARCH_MIN_LENGTH" validate:"gte=0"`
}

// FilterConfig configures the Filter enhancer.
type FilterConfig struct {
	ToggleButton string                 `yaml:"toggle_button"`
	Panel        string                 `yaml:"panel"`
	ClearButton  string                 `yaml:"clear_button"`
	Controls     map[string]ControlKind `yaml:"controls"`
	AutoReload   bool                   `yaml:"auto_reload" env:"FILTER_AUTO_RELOAD"`
}

// ControlKind distinguishes plain-value filter controls from glob-pattern
// controls.
type ControlKind string

const (
	ControlExact ControlKind = "exact"
	ControlGlob  ControlKind = "glob"
)

// StatsConfig configures the Stats enhancer.
type StatsConfig struct {
	Elements map[string]string `yaml:"elements"`
	Format   string            `yaml:"format"`
}

// VelocityConfig configures the Velocity display enhancer.
type VelocityConfig struct {
	Elements              map[string]string      `yaml:"elements"`
	Format                string                 `yaml:"format"`
	TrackAverage          bool                   `yaml:"track_average"`
	MaxVelocityForAverage float64                `yaml:"max_velocity_for_average"`
	MinVelocityForAverage float64                `yaml:"min_velocity_for_average"`
	OnVelocityUpdate      func(speed float64, hex string) `yaml:"-"`
}

// ScrollRestoreConfig configures the Scroll-restore enhancer.
type ScrollRestoreConfig struct {
	Enabled   bool   `yaml:"enabled" env:"SCROLL_RESTORE_ENABLED"`
	AutoClear bool   `yaml:"auto_clear" env:"SCROLL_RESTORE_AUTO_CLEAR"`
	StorePath string `yaml:"store_path" env:"SCROLL_RESTORE_STORE_PATH"`
}

// Config is the full configuration surface. Every field has a
// default applied by DefaultConfig.
type Config struct {
	Adapter Adapter `yaml:"-" validate:"required"`

	Pagination    PaginationConfig    `yaml:"pagination"`
	Virtual       VirtualConfig       `yaml:"virtual"`
	Scrolling     ScrollingConfig     `yaml:"scrolling"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Rendering     RenderingConfig     `yaml:"rendering"`
	Selection     SelectionConfig     `yaml:"selection"`
	Search        SearchConfig        `yaml:"search"`
	Filter        FilterConfig        `yaml:"filter"`
	Stats         StatsConfig         `yaml:"stats"`
	Velocity      VelocityConfig      `yaml:"velocity"`
	ScrollRestore ScrollRestoreConfig `yaml:"scroll_restore"`

	Transform           func(raw Item) Item `yaml:"-"`
	InitialScrollIndex  int                 `yaml:"initial_scroll_index"`
	SelectID            string              `yaml:"select_id"`
	AutoLoad            bool                `yaml:"auto_load" env:"AUTO_LOAD"`
	AutoSelectFirst     bool                `yaml:"auto_select_first" env:"AUTO_SELECT_FIRST"`
	Layout              LayoutNode          `yaml:"layout"`
	Debug               bool                `yaml:"debug" env:"DEBUG"`
	AriaLabel           string              `yaml:"aria_label"`

	PlaceholderSampleSize int             `yaml:"placeholder_sample_size" env:"PLACEHOLDER_SAMPLE_SIZE" validate:"gte=0"`
	PlaceholderMode       PlaceholderMode `yaml:"placeholder_mode" env:"PLACEHOLDER_MODE" validate:"omitempty,oneof=masked skeleton blank dots realistic"`
	PlaceholdersEnabled   bool            `yaml:"placeholders_enabled" env:"PLACEHOLDERS_ENABLED"`

	PendingRemovalTTL time.Duration `yaml:"pending_removal_ttl" env:"PENDING_REMOVAL_TTL"`
	ScrollbarFadeout  time.Duration `yaml:"scrollbar_fadeout" env:"SCROLLBAR_FADEOUT"`

	ConfigFile string `yaml:"-" env:"CONFIG_FILE"`
	EnvPrefix  string `yaml:"-"`
}

// DefaultConfig returns a Config with every field set to its documented
// default. adapter must not be nil; callers override individual fields
// afterward.
func DefaultConfig(adapter Adapter) Config {
	return Config{
		Adapter: adapter,
		Pagination: PaginationConfig{
			Strategy: StrategyOffset,
			Limit:    20,
		},
		Virtual: VirtualConfig{
			ItemSize:  50,
			Overscan:  3,
			MaxScroll: 1_000_000,
		},
		Scrolling: ScrollingConfig{
			Orientation:  OrientationVertical,
			MeasureItems: false,
			Sensitivity:  1.0,
			Momentum: MomentumConfig{
				Deceleration:      0.95,
				MinVelocity:       0.01,
				MaxDuration:       2 * time.Second,
				VelocityThreshold: 2.0,
				Window:            100 * time.Millisecond,
				Decay:             0.9,
			},
		},
		Performance: PerformanceConfig{
			CancelLoadThreshold:   2.0,
			MaxConcurrentRequests: 4,
			RecycleElements:       true,
		},
		Rendering: RenderingConfig{MaintainDomOrder: true},
		Selection: SelectionConfig{Mode: SelectionSingle},
		Search: SearchConfig{
			Debounce:  300 * time.Millisecond,
			MinLength: 1,
		},
		Filter:                FilterConfig{Controls: map[string]ControlKind{}},
		Stats:                 StatsConfig{Elements: map[string]string{}},
		Velocity:              VelocityConfig{Elements: map[string]string{}, MaxVelocityForAverage: 50, MinVelocityForAverage: 0},
		ScrollRestore:         ScrollRestoreConfig{AutoClear: true},
		AutoLoad:              true,
		PlaceholderSampleSize: 10,
		PlaceholderMode:       PlaceholderMasked,
		PlaceholdersEnabled:   true,
		PendingRemovalTTL:     5 * time.Second,
		ScrollbarFadeout:      1 * time.Second,
		EnvPrefix:             "VLIST_",
	}
}

var validate = validator.New()

// Validate runs struct-tag validation over the configuration surface.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// LoadConfigFile reads a YAML document at path and merges it over base,
// returning the merged Config. base is typically DefaultConfig(adapter).
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// LoadConfigEnv overlays environment variables (prefixed with cfg.EnvPrefix,
// default "VLIST_") onto cfg in place.
func LoadConfigEnv(cfg *Config) error {
	prefix := cfg.EnvPrefix
	if prefix == "" {
		prefix = "VLIST_"
	}
	return env.Parse(cfg, env.Options{Prefix: prefix})
}
