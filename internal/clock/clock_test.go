package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := Fake(start)
	require.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	require.Equal(t, 90*time.Second, c.Since(start))

	c.Set(start)
	require.Zero(t, c.Since(start))
}

func TestOrReal(t *testing.T) {
	require.IsType(t, realClock{}, OrReal(nil))
	fake := Fake(time.Unix(0, 0))
	require.Same(t, fake, OrReal(fake))
}
