package resource

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryConsumeOutcomes(t *testing.T) {
	fuel := New("Fuel", 10, 100)

	remaining, status := fuel.TryConsume(4)
	require.Equal(t, ConsumeOK, status)
	assert.Equal(t, 6, remaining)

	// Level below the requested amount: nothing is taken.
	remaining, status = fuel.TryConsume(7)
	require.Equal(t, ConsumeInsufficient, status)
	assert.Equal(t, 6, remaining)
	assert.Equal(t, 6, fuel.Level())

	_, status = fuel.TryConsume(6)
	require.Equal(t, ConsumeOK, status)

	remaining, status = fuel.TryConsume(1)
	require.Equal(t, ConsumeEmpty, status)
	assert.Equal(t, 0, remaining)
}

func TestTryStoreClamping(t *testing.T) {
	energy := New("Energy", 30, 50)

	result := energy.TryStore(10)
	require.Equal(t, StoredAll, result.Status)
	assert.Equal(t, 40, result.Level)

	result = energy.TryStore(10)
	require.Equal(t, StoredAll, result.Status)
	assert.Equal(t, 50, result.Level)

	// No space left: the full amount comes back as leftover.
	result = energy.TryStore(10)
	require.Equal(t, StoredNone, result.Status)
	assert.Equal(t, 10, result.Leftover)
	assert.Equal(t, 50, result.Level)
	assert.Equal(t, 50, energy.Level())
}

func TestTryStorePartial(t *testing.T) {
	tank := New("Oxygen", 47, 50)

	result := tank.TryStore(10)
	require.Equal(t, StoredPartial, result.Status)
	assert.Equal(t, 3, result.Stored)
	assert.Equal(t, 7, result.Leftover)
	assert.Equal(t, 50, result.Level)
}

func TestNoDoubleSpendUnderContention(t *testing.T) {
	fuel := New("Fuel", 1000, 1000)

	var consumed int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, status := fuel.TryConsume(5)
				if status != ConsumeOK {
					return
				}
				atomic.AddInt64(&consumed, 5)
			}
		}()
	}
	wg.Wait()

	// Concurrent consumers can never take more than was available.
	assert.Equal(t, int64(1000), atomic.LoadInt64(&consumed))
	assert.Equal(t, 0, fuel.Level())
}

func TestCapacityInvariantUnderContention(t *testing.T) {
	oxygen := New("Oxygen", 20, 50)

	var violations int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(producer bool) {
			defer wg.Done()
			for n := 0; n < 1000; n++ {
				var level int
				if producer {
					level = oxygen.TryStore(4).Level
				} else {
					level, _ = oxygen.TryConsume(1)
				}
				if level < 0 || level > 50 {
					atomic.AddInt64(&violations, 1)
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt64(&violations))
	level := oxygen.Level()
	assert.GreaterOrEqual(t, level, 0)
	assert.LessOrEqual(t, level, 50)
}
