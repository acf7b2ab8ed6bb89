package vlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchOpenCloseTracksState(t *testing.T) {
	f := NewSearchFeature(SearchConfig{}, nil, nil)
	assert.False(t, f.IsOpen())
	f.Open()
	assert.True(t, f.IsOpen())
	f.Close()
	assert.False(t, f.IsOpen())
}

func TestSearchSetQueryCommitsAfterDebounce(t *testing.T) {
	var committed string
	f := NewSearchFeature(SearchConfig{Debounce: 10 * time.Millisecond}, nil, func(q string) { committed = q })

	f.SetQuery("hello")
	assert.Equal(t, "", f.Query(), "query should not commit before debounce elapses")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "hello", f.Query())
	assert.Equal(t, "hello", committed)
}

func TestSearchEmptyQueryCommitsImmediately(t *testing.T) {
	var committed string
	calls := 0
	f := NewSearchFeature(SearchConfig{Debounce: 50 * time.Millisecond}, nil, func(q string) {
		calls++
		committed = q
	})

	f.SetQuery("x")
	f.SetQuery("")
	assert.Equal(t, 1, calls)
	assert.Equal(t, "", committed)
}

func TestSearchBelowMinLengthNeverCommits(t *testing.T) {
	var calls int
	f := NewSearchFeature(SearchConfig{Debounce: 5 * time.Millisecond, MinLength: 3}, nil, func(string) { calls++ })

	f.SetQuery("ab")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, calls)
}

func TestSearchClearResetsQueryAndEmits(t *testing.T) {
	bus := NewEventBus()
	var cleared bool
	bus.On(EventSearchClear, func(Event) { cleared = true })
	f := NewSearchFeature(SearchConfig{Debounce: 5 * time.Millisecond}, bus, nil)

	f.SetQuery("abc")
	time.Sleep(20 * time.Millisecond)
	f.Clear()

	assert.Equal(t, "", f.Query())
	assert.True(t, cleared)
}

func TestSearchNewKeystrokeResetsDebounceTimer(t *testing.T) {
	var commits []string
	f := NewSearchFeature(SearchConfig{Debounce: 30 * time.Millisecond}, nil, func(q string) {
		commits = append(commits, q)
	})

	f.SetQuery("a")
	time.Sleep(10 * time.Millisecond)
	f.SetQuery("ab")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"ab"}, commits)
}
