package ringbuf

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	t.Parallel()

	r := New[int](4)
	require.Equal(t, 4, r.Cap())

	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	require.True(t, r.Push(3))
	require.True(t, r.Push(4))
	require.False(t, r.Push(5), "ring should report full rather than block")

	for _, want := range []int{1, 2, 3, 4} {
		got, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := r.Pop()
	require.False(t, ok)
}

func TestConcurrentSingleProducerSingleConsumer(t *testing.T) {
	const n = 100000
	r := New[int](64)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.Push(i) {
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			var v int
			var ok bool
			for {
				v, ok = r.Pop()
				if ok {
					break
				}
			}
			require.Equal(t, i, v)
		}
	}()

	wg.Wait()
}
