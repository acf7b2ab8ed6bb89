package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusEmitInvokesRegisteredHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	bus.On("x", func(Event) { order = append(order, 1) })
	bus.On("x", func(Event) { order = append(order, 2) })
	bus.Emit("x")

	assert.Equal(t, []int{1, 2}, order)
}

func TestEventBusEmitPassesDataThrough(t *testing.T) {
	bus := NewEventBus()
	var got Event
	bus.On("y", func(ev Event) { got = ev })

	bus.Emit("y", 42, "hello")

	assert.Equal(t, "y", got.Name)
	assert.Equal(t, []any{42, "hello"}, got.Data)
}

func TestEventBusEmitWithNoHandlersDoesNothing(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() { bus.Emit("nobody-listens") })
}

func TestEventBusOnlyMatchingNameHandlersFire(t *testing.T) {
	bus := NewEventBus()
	var aFired, bFired bool
	bus.On("a", func(Event) { aFired = true })
	bus.On("b", func(Event) { bFired = true })

	bus.Emit("a")

	assert.True(t, aFired)
	assert.False(t, bFired)
}

func TestEventBusOnReturnsWorkingUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	var fired int
	unsubscribe := bus.On("x", func(Event) { fired++ })

	bus.Emit("x")
	unsubscribe()
	bus.Emit("x")

	assert.Equal(t, 1, fired)
}

func TestEventBusUnsubscribeOnlyRemovesOneHandler(t *testing.T) {
	bus := NewEventBus()
	var a, b int
	unsubA := bus.On("x", func(Event) { a++ })
	bus.On("x", func(Event) { b++ })

	unsubA()
	bus.Emit("x")

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestEventBusUnsubscribeTwiceIsSafe(t *testing.T) {
	bus := NewEventBus()
	unsubscribe := bus.On("x", func(Event) {})
	assert.NotPanics(t, func() {
		unsubscribe()
		unsubscribe()
	})
}

func TestEventBusMultipleTopicsAreIndependent(t *testing.T) {
	bus := NewEventBus()
	var count int
	bus.On("a", func(Event) { count++ })
	bus.On("b", func(Event) { count += 10 })

	bus.Emit("a")
	bus.Emit("b")
	bus.Emit("a")

	assert.Equal(t, 12, count)
}
