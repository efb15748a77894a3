package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	assert := assert.New(t)

	seq := &Sequence{}
	assert.Equal(uint8(0), seq.NextByte())

	seq = &Sequence{Bytes: []uint8{1, 2, 3}}
	var got []uint8
	for range 7 {
		got = append(got, seq.NextByte())
	}
	assert.Equal([]uint8{1, 2, 3, 1, 2, 3, 1}, got)
}

func TestRandomSeed(t *testing.T) {
	assert := assert.New(t)

	a := NewRandomSeed(1, 2)
	b := NewRandomSeed(1, 2)

	seen := map[uint8]bool{}
	for range 1024 {
		va := a.NextByte()
		assert.Equal(va, b.NextByte())
		seen[va] = true
	}

	// A working generator covers most byte values.
	assert.Greater(len(seen), 200)

	assert.NotNil(NewRandom())
}
