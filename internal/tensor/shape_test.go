package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeBasics(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.True(t, s.Equal(Shape{2, 3, 4}))
	assert.False(t, s.Equal(Shape{2, 3}))

	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 2, s[0], "clone must not alias")

	assert.NoError(t, s.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{"row bias", Shape{4, 8}, Shape{1, 8}, Shape{4, 8}, true, false},
		{"rank extend", Shape{4, 8}, Shape{8}, Shape{4, 8}, true, false},
		{"column", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"incompatible", Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestBroadcastIndex(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, BroadcastIndex(Shape{3}, Shape{2, 3}))
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, BroadcastIndex(Shape{2, 1}, Shape{2, 3}))
	assert.Equal(t, []int{0, 1, 2, 3}, BroadcastIndex(Shape{2, 2}, Shape{2, 2}))
}
