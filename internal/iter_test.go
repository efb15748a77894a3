package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain2(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(Chain2(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	count := 0
	for range Chain2(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)

	assert.Equal(0, len(maps.Collect(Chain2[string, int]())))
}
