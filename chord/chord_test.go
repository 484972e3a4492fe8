package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateChordKey(t *testing.T) {
	assert := assert.New(t)
	notes := []int{67, 60, 64}
	assert.Equal("60-64-67", CreateChordKey(notes))
	assert.Equal([]int{67, 60, 64}, notes, "input is left alone")
	assert.Equal("", CreateChordKey(nil))
}

func TestMissing(t *testing.T) {
	assert := assert.New(t)
	on := FromKeys([]int{60, 72})
	assert.Equal([]int{64}, Missing([]int{64, 60}, on))
	assert.Empty(Missing([]int{60}, on), "extra keys are fine")
	assert.Empty(Missing(nil, on))
	assert.Equal([]int{64}, Missing([]int{64, 64}, nil))
}

func TestDiff(t *testing.T) {
	assert := assert.New(t)
	down, up := Diff(FromKeys([]int{60, 64}), FromKeys([]int{64, 67, 71}))
	assert.Equal([]int{67, 71}, down)
	assert.Equal([]int{60}, up)
}

func TestKeysSorted(t *testing.T) {
	assert.Equal(t, []int{48, 60}, Keys(FromKeys([]int{60, 48})))
}
