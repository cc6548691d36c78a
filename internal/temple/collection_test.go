package temple

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLeavesInputUntouched(t *testing.T) {
	in := make([]string, 2, 8)
	in[0], in[1] = "a", "b"

	out, err := Append(in, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Len(t, in, 2)

	// writing to out must not be visible through in's spare capacity
	out[0] = "z"
	assert.Equal(t, "a", in[0])
}

func TestAppendRunsValidator(t *testing.T) {
	boom := errors.New("bad item")
	out, err := Append([]int{1}, 2, func(int) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, out)
}

func TestRemoveAt(t *testing.T) {
	in := []string{"a", "b", "c"}

	out, removed, err := RemoveAt(in, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed)
	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"a", "b", "c"}, in)
}

func TestRemoveAtOutOfRange(t *testing.T) {
	in := []string{"a", "b", "c"}
	for _, idx := range []int{-1, 3, 100} {
		out, _, err := RemoveAt(in, idx)
		require.Error(t, err, idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, in, out)
	}

	_, _, err := RemoveAt([]string{}, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveByValue(t *testing.T) {
	in := []string{"x", "y", "x"}

	out, idx, err := RemoveByValue(in, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []string{"y", "x"}, out)

	_, idx, err = RemoveByValue(in, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, -1, idx)
}
