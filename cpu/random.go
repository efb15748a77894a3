package cpu

import (
	"math/rand/v2"
)

// Random is a source of random bytes for the RND instruction.
type Random interface {
	NextByte() uint8
}

// MathRandom draws bytes from a PCG generator.
type MathRandom struct {
	rand *rand.Rand
}

var _ Random = (*MathRandom)(nil)

// NewRandom returns a generator seeded from the runtime's entropy.
func NewRandom() *MathRandom {
	return NewRandomSeed(rand.Uint64(), rand.Uint64())
}

// NewRandomSeed returns a reproducible generator.
func NewRandomSeed(seed1, seed2 uint64) *MathRandom {
	return &MathRandom{rand: rand.New(rand.NewPCG(seed1, seed2))}
}

func (mr *MathRandom) NextByte() uint8 {
	return uint8(mr.rand.UintN(256))
}

// Sequence replays Bytes in order, wrapping at the end.
// An empty sequence always yields zero.
type Sequence struct {
	Bytes []uint8
	index int
}

var _ Random = (*Sequence)(nil)

func (seq *Sequence) NextByte() (value uint8) {
	if len(seq.Bytes) == 0 {
		return
	}

	value = seq.Bytes[seq.index%len(seq.Bytes)]
	seq.index++
	return
}
