package jellyfish

// rand.go describes the random number streams used by topology construction and traffic placement

import (
	"sync"

	"github.com/iti/rngstream"
)

// RandSource is the random stream consumed by the builder and the placement code.
// *rngstream.RngStream satisfies it.
type RandSource interface {
	RandInt(lo, hi int) int // uniform integer in [lo, hi], both ends inclusive
	RandU01() float64      // uniform float in (0,1)
}

// rngstream.New advances a package-level seed, so stream creation is serialized
var streamMu sync.Mutex

// moduli of the two MRG32k3a component generators; seed words must stay below them
const (
	streamM1 uint64 = 4294967087
	streamM2 uint64 = 4294944443
)

func newRngStream(name string) *rngstream.RngStream {
	streamMu.Lock()
	defer streamMu.Unlock()
	return rngstream.New(name)
}

// NewStream returns a named rngstream, the default source when no seed is injected.
// Safe for concurrent use.
func NewStream(name string) RandSource {
	return newRngStream(name)
}

// SeededSource returns an rngstream whose state is derived from seed and stream.
// Two sources made from the same seed and stream number produce identical sequences.
func SeededSource(seed int64, stream uint64) RandSource {
	rs := newRngStream("seeded")
	rs.SetSeed(streamSeed(seed, stream))
	return rs
}

// streamSeed expands seed and stream into the six seed words of an MRG32k3a state.
// Each word is nonzero and below its component's modulus.
func streamSeed(seed int64, stream uint64) []uint64 {
	x := uint64(seed) ^ (stream * 0x9e3779b97f4a7c15)
	words := make([]uint64, 6)
	for i := range words {
		x = splitmix(x)
		m := streamM1
		if i >= 3 {
			m = streamM2
		}
		words[i] = 1 + x%(m-1)
	}
	return words
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// randIndex returns a uniform index into a collection of size n
func randIndex(rng RandSource, n int) int {
	return rng.RandInt(0, n-1)
}

// randPair returns two distinct uniform indices into a collection of size n >= 2
func randPair(rng RandSource, n int) (int, int) {
	i := rng.RandInt(0, n-1)
	j := rng.RandInt(0, n-2)
	if j >= i {
		j += 1
	}
	return i, j
}
