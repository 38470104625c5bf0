// File: internal/prng/prng.go
// Project: UNIVERSE
// Description: xoshiro256**-equivalent deterministic stream, seeded via a
//              splitmix64 expansion of a single 64-bit seed. No third-party
//              package in the retrieved example pack implements this exact
//              algorithm (the spec fixes it by name), so this file is one
//              of the few intentional standard-library islands in the
//              engine — see DESIGN.md.
package prng

import "math"

// Stream is a seedable, reproducible RNG stream.
type Stream struct {
	s [4]uint64
}

// splitmix64 expands a single seed into a sequence of well-distributed
// uint64s, used both to seed the main stream and to key derived substreams.
type splitmix64 struct {
	state uint64
}

func (sm *splitmix64) next() uint64 {
	sm.state += 0x9E3779B97F4A7C15
	z := sm.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

// New creates a Stream seeded from a single 64-bit seed via splitmix64.
func New(seed uint64) *Stream {
	sm := &splitmix64{state: seed}
	var s [4]uint64
	for i := range s {
		s[i] = sm.next()
	}
	return &Stream{s: s}
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// NextU64 advances the stream and returns the next xoshiro256** output.
func (r *Stream) NextU64() uint64 {
	result := rotl(r.s[1]*5, 7) * 9

	t := r.s[1] << 17

	r.s[2] ^= r.s[0]
	r.s[3] ^= r.s[1]
	r.s[1] ^= r.s[2]
	r.s[0] ^= r.s[3]

	r.s[2] ^= t

	r.s[3] = rotl(r.s[3], 45)

	return result
}

// UniformUnit returns a float64 in the half-open range [0,1).
func (r *Stream) UniformUnit() float64 {
	// Use the top 53 bits for a full-precision mantissa.
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

// Range returns an unbiased uniform integer in [0,max) via rejection
// sampling. Panics if max <= 0.
func (r *Stream) Range(max uint64) uint64 {
	if max == 0 {
		panic("prng: Range requires max > 0")
	}
	// Largest multiple of max that fits in 64 bits, to reject the biased tail.
	limit := -max % max
	for {
		v := r.NextU64()
		if v >= limit {
			return v % max
		}
	}
}

// IntN is a convenience wrapper returning an int in [0,n).
func (r *Stream) IntN(n int) int {
	return int(r.Range(uint64(n)))
}

// Gaussian draws a standard-normal-scaled value via the Box-Muller
// transform: mean + stddev*Z where Z ~ N(0,1).
func (r *Stream) Gaussian(mean, stddev float64) float64 {
	u1 := r.UniformUnit()
	for u1 == 0 {
		u1 = r.UniformUnit()
	}
	u2 := r.UniformUnit()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}

// Derive produces a reproducible substream keyed by a 3D integer coordinate
// and the main seed, so that materialising one sector never consumes
// entropy from the main stream.
func Derive(seed int64, x, y, z int) *Stream {
	sm := &splitmix64{state: uint64(seed)}
	// Fold the coordinate through a few splitmix64 rounds to build the
	// derived seed, keeping Derive itself free of any draw against the
	// caller's live stream.
	mix := sm.next() ^ foldCoord(x, y, z)
	return New(mix)
}

func foldCoord(x, y, z int) uint64 {
	ux := uint64(uint32(x))
	uy := uint64(uint32(y))
	uz := uint64(uint32(z))
	h := ux*0x9E3779B97F4A7C15 + uy*0xBF58476D1CE4E5B9 + uz*0x94D049BB133111EB
	return h ^ (h >> 29)
}

// GenerateUID draws two consecutive u64s from the stream, in that order.
// Preserving this exact draw order matters: otherwise UIDs change under
// otherwise-identical seeds (see SPEC_FULL §4.2 / design note).
func GenerateUID(r *Stream) (hi, lo uint64) {
	hi = r.NextU64()
	lo = r.NextU64()
	return hi, lo
}
