package jellyfish

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSourceIsReproducible(t *testing.T) {
	a := SeededSource(99, 3)
	b := SeededSource(99, 3)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.RandInt(0, 1000), b.RandInt(0, 1000))
		require.Equal(t, a.RandU01(), b.RandU01())
	}
}

func TestSeededSourceRanges(t *testing.T) {
	rng := SeededSource(5, 0)
	for i := 0; i < 1000; i++ {
		v := rng.RandInt(-2, 2)
		require.GreaterOrEqual(t, v, -2)
		require.LessOrEqual(t, v, 2)
		u := rng.RandU01()
		require.Greater(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
	assert.Equal(t, 4, rng.RandInt(4, 4))
}

func TestSeededSourceStreamsDiffer(t *testing.T) {
	a := SeededSource(99, 0)
	b := SeededSource(99, 1)
	c := SeededSource(100, 0)
	same := func(x, y RandSource) bool {
		for i := 0; i < 20; i++ {
			if x.RandInt(0, 1<<20) != y.RandInt(0, 1<<20) {
				return false
			}
		}
		return true
	}
	assert.False(t, same(a, b))
	assert.False(t, same(SeededSource(99, 0), c))
}

func TestStreamSeedWordsInRange(t *testing.T) {
	for _, seed := range []int64{0, 1, -1, 1 << 62} {
		for stream := uint64(0); stream < 4; stream++ {
			words := streamSeed(seed, stream)
			require.Len(t, words, 6)
			for i, w := range words {
				m := streamM1
				if i >= 3 {
					m = streamM2
				}
				require.NotZero(t, w)
				require.Less(t, w, m)
			}
		}
	}
}

func TestNewStreamConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := NewStream(fmt.Sprintf("worker-%d", i))
			v := rng.RandInt(0, 9)
			assert.True(t, v >= 0 && v <= 9)
		}(i)
	}
	wg.Wait()
}

func TestRandPairDistinct(t *testing.T) {
	rng := SeededSource(1, 0)
	for i := 0; i < 500; i++ {
		x, y := randPair(rng, 3)
		require.NotEqual(t, x, y)
		require.True(t, x >= 0 && x < 3 && y >= 0 && y < 3)
	}
}
