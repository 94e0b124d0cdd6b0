package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1, 3}.Validate())
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, ComputeStrides(Shape{2, 3, 4}))
	assert.Equal(t, []int{1}, ComputeStrides(Shape{5}))
	assert.Empty(t, ComputeStrides(Shape{}))
}

func TestBroadcastShapes(t *testing.T) {
	out, err := BroadcastShapes(Shape{2, 3, 4}, Shape{3, 4})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 4}, out)

	out, err = BroadcastShapes(Shape{2, 1, 4}, Shape{2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 4}, out)

	out, err = BroadcastShapes(Shape{4}, Shape{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 4}, out)

	_, err = BroadcastShapes(Shape{2, 3}, Shape{2, 4})
	assert.Error(t, err)
}

func TestRawTensorReshapeMismatch(t *testing.T) {
	raw := MustNewRaw(Shape{2, 3}, Float32)
	_, err := raw.WithShape(Shape{4, 2})
	assert.Error(t, err)

	out, err := raw.WithShape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, out.Shape())
}
