package vlist

import (
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// log is the package-level structured logger: every DebugLog entry is
// forwarded here at its own level (see DebugLog.Add).
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// levelColor maps a DebugLog level to a terminal color via
// github.com/fatih/color, so a host printing DebugLog entries directly
// (rather than through logrus) gets the same at-a-glance severity cues.
var levelColor = map[string]*color.Color{
	"debug": color.New(color.FgHiBlack),
	"info":  color.New(color.FgCyan),
	"warn":  color.New(color.FgYellow),
	"error": color.New(color.FgRed, color.Bold),
}

// LogEntry is one recorded message in a DebugLog.
type LogEntry struct {
	Time    time.Time
	Level   string
	Source  string
	Message string
}

// String renders the entry with its level colorized.
func (le LogEntry) String() string {
	c, ok := levelColor[le.Level]
	level := le.Level
	if ok {
		level = c.Sprint(le.Level)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", le.Time.Format(time.RFC3339), level, le.Source, le.Message)
}

// DebugLog is a fixed-capacity ring buffer of LogEntry, enabled by
// Config.Debug: start/count ring-buffer bookkeeping behind a standalone
// recorder any host can drain, with no styled rendering of its own.
type DebugLog struct {
	mu      sync.Mutex
	entries []LogEntry
	size    int
	start   int
	count   int
}

// NewDebugLog creates a ring buffer holding at most size entries.
func NewDebugLog(size int) *DebugLog {
	if size <= 0 {
		size = 200
	}
	return &DebugLog{entries: make([]LogEntry, size), size: size}
}

// Add records one entry and forwards it to the package logger at a matching
// level so a host without DebugLog wired up still sees it somewhere.
func (l *DebugLog) Add(source, level, message string, args...any) {
	msg := fmt.Sprintf(message, args...)
	l.mu.Lock()
	index := (l.start + l.count) % l.size
	l.entries[index] = LogEntry{Time: time.Now(), Level: level, Source: source, Message: msg}
	if l.count < l.size {
		l.count++
	} else {
		l.start = (l.start + 1) % l.size
	}
	l.mu.Unlock()

	entry := log.WithField("source", source)
	switch level {
	case "error":
		entry.Error(msg)
	case "warn":
		entry.Warn(msg)
	case "debug":
		entry.Debug(msg)
	default:
		entry.Info(msg)
	}
}

// Length returns the number of entries currently held.
func (l *DebugLog) Length() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Entries returns a snapshot of every recorded entry, oldest first.
func (l *DebugLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(l.start+i)%l.size]
	}
	return out
}

// Iter streams every recorded entry, oldest first, over a channel, for
// hosts that prefer a pull model over a snapshot slice.
func (l *DebugLog) Iter() <-chan LogEntry {
	ch := make(chan LogEntry)
	entries := l.Entries()

	go func() {
		defer close(ch)
		for _, e := range entries {
			ch <- e
		}
	}()

	return ch
}
