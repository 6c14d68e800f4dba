package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	const (
		resolution = 20 * time.Millisecond
		threshold  = 15 * time.Millisecond
		// the sleep may take slightly longer than requested
		tolerance = resolution + resolution/2
	)

	clock := Start(resolution)
	defer clock.Stop()

	for range 20 {
		now := clock.Now()
		require.False(t, now.IsZero())
		if lag := time.Since(now); lag > tolerance {
			require.Fail(t, "the clock is too slow", lag.String())
		}

		time.Sleep(threshold)
	}
}

func BenchmarkClock(b *testing.B) {
	b.Run("time.Now()", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			time.Now().Add(5 * time.Second)
		}
	})

	clock := Start(50 * time.Millisecond)
	defer clock.Stop()

	b.Run("coarse", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			clock.Now().Add(5 * time.Second)
		}
	})
}
