package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(u64(1)))
	require.NoError(t, s.Push(u64(2)))
	top, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, u64(2), top)
	second, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, u64(1), second)
}

func TestStackUnderflow(t *testing.T) {
	s := NewStack()
	_, err := s.Pop()
	require.ErrorIs(t, err, errStackUnderflow)
}

func TestStackOverflow(t *testing.T) {
	s := NewStack()
	for i := 0; i < stackLimit; i++ {
		require.NoError(t, s.Push(u64(uint64(i))))
	}
	require.ErrorIs(t, s.Push(u64(0)), errStackOverflow)
}

func TestDup(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(u64(1)))
	require.NoError(t, s.Push(u64(2)))
	require.NoError(t, s.Push(u64(3)))

	require.NoError(t, s.Dup(1)) // DUP1 duplicates the top item
	top, _ := s.Peek(0)
	second, _ := s.Peek(1)
	require.Equal(t, u64(3), top)
	require.Equal(t, u64(3), second)
}

func TestSwap(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(u64(1)))
	require.NoError(t, s.Push(u64(2)))
	require.NoError(t, s.Push(u64(3)))

	require.NoError(t, s.Swap(2)) // SWAP2 exchanges top with the item two below it
	top, _ := s.Peek(0)
	bottom, _ := s.Peek(2)
	require.Equal(t, u64(1), top)
	require.Equal(t, u64(3), bottom)
}
