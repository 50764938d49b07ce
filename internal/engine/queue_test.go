package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/device"
)

func update(v int32) device.AxisUpdate {
	return device.AxisUpdate{Device: "stick", Axis: axis.X, Value: v}
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for i := int32(0); i < 5; i++ {
		require.True(t, q.Push(update(i)))
	}
	for i := int32(0); i < 5; i++ {
		u, err := q.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, u.Value)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_GrowsWithoutConsumer(t *testing.T) {
	q := NewQueue()
	const n = 100000
	for i := int32(0); i < n; i++ {
		require.True(t, q.Push(update(i)), "push never blocks")
	}
	assert.Equal(t, n, q.Len())

	// Draining through the compaction threshold keeps order intact.
	for i := int32(0); i < n; i++ {
		u, err := q.Pop(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, u.Value)
		if i == n/2 {
			q.Push(update(n))
		}
	}
	u, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(n), u.Value)
}

func TestQueue_CloseDrainsThenEnds(t *testing.T) {
	q := NewQueue()
	q.Push(update(1))
	q.Push(update(2))
	q.Close()

	assert.False(t, q.Push(update(3)), "push after close is rejected")

	for _, want := range []int32{1, 2} {
		u, err := q.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, u.Value)
	}
	_, err := q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue()
	got := make(chan device.AxisUpdate)
	go func() {
		u, err := q.Pop(context.Background())
		if err == nil {
			got <- u
		}
	}()

	select {
	case <-got:
		t.Fatal("Pop returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(update(7))
	select {
	case u := <-got:
		assert.Equal(t, int32(7), u.Value)
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake up after Push")
	}
}

func TestQueue_PopCancelled(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, perProducer = 8, 1000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(device.AxisUpdate{Device: string(rune('a' + p)), Axis: axis.X, Value: int32(i)})
			}
		}(p)
	}
	go func() {
		wg.Wait()
		q.Close()
	}()

	last := make(map[string]int32)
	count := 0
	for {
		u, err := q.Pop(context.Background())
		if err == ErrQueueClosed {
			break
		}
		require.NoError(t, err)
		if prev, ok := last[u.Device]; ok {
			require.Greater(t, u.Value, prev, "per-producer order is preserved")
		}
		last[u.Device] = u.Value
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}
