package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCurrent(t *testing.T) {
	fr := Frame{T: 5, N: 10, BlockLength: 4}
	assert.Equal(t, 4, Resolve(Current, -1, fr))
	assert.Equal(t, 6, Resolve(Current, 1, fr))
}

func TestResolveFirstLast(t *testing.T) {
	fr := Frame{T: 5, N: 10}
	assert.Equal(t, 1, Resolve(First, 0, fr))
	assert.Equal(t, 10, Resolve(Last, 0, fr))
	assert.Equal(t, 9, Resolve(Last, -1, fr))
}

func TestResolveBlockAnchors(t *testing.T) {
	// block_length=4: blocks start at 1,5,9,...
	fr := Frame{T: 6, N: 20, BlockLength: 4}
	assert.Equal(t, 5, Resolve(BlockCurrent, 0, fr))
	assert.Equal(t, 1, Resolve(BlockPrev, 0, fr))
	assert.Equal(t, 9, Resolve(BlockNext, 0, fr))
}

func TestClampBoundary(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 10))
	assert.Equal(t, 0, Clamp(0, 10))
	assert.Equal(t, 10, Clamp(11, 10))
	assert.Equal(t, 5, Clamp(5, 10))
}

func TestMidpointFloors(t *testing.T) {
	assert.Equal(t, 3, Midpoint(3, 4))
	assert.Equal(t, 4, Midpoint(3, 5))
}

func TestResolveScaled(t *testing.T) {
	fr := Frame{T: 3, DTM: 2.5}
	assert.Equal(t, 7, Resolve(Scaled, 0, fr)) // floor(3*2.5)=7
	assert.Equal(t, 5, Resolve(ScaledZero, 2, fr))
}
