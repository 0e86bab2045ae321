package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCell_GetReturnsInitial(t *testing.T) {
	c := NewCell("a")
	require.Equal(t, "a", c.Get())
}

func TestCell_SetUpdatesValue(t *testing.T) {
	c := NewCell("a")
	c.Set("b")
	require.Equal(t, "b", c.Get())
}

func TestCell_WatchReceivesUpdates(t *testing.T) {
	c := NewCell(0)

	var got []int
	c.Watch(func(v int) { got = append(got, v) })

	c.Set(1)
	c.Set(2)

	require.Equal(t, []int{1, 2}, got)
}

func TestCell_UnwatchStopsUpdates(t *testing.T) {
	c := NewCell(0)

	var got []int
	stop := c.Watch(func(v int) { got = append(got, v) })

	c.Set(1)
	stop()
	c.Set(2)
	stop() // second call is a no-op

	require.Equal(t, []int{1}, got)
}

func TestCell_ListenerReadsLiveValue(t *testing.T) {
	// A listener registered once must observe the value at fire time, not a
	// value captured at registration.
	c := NewCell("initial")

	var seen string
	c.Watch(func(string) { seen = c.Get() })

	c.Set("latest")
	require.Equal(t, "latest", seen)
}
