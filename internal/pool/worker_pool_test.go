package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	p := NewWorkerPool(2)
	require.NoError(t, p.Start())
	defer p.Stop()

	var count int32
	var channels []<-chan error
	for i := 0; i < 10; i++ {
		done, err := p.Submit(context.Background(), func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
		require.NoError(t, err)
		channels = append(channels, done)
	}

	for _, done := range channels {
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("task did not complete")
		}
	}

	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestWorkerPoolDeliversTaskError(t *testing.T) {
	p := NewWorkerPool(1)
	require.NoError(t, p.Start())
	defer p.Stop()

	boom := errors.New("boom")
	done, err := p.Submit(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("task did not complete")
	}

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.FailedTasks)
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	p := NewWorkerPool(1)

	_, err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestWorkerPoolDoubleStart(t *testing.T) {
	p := NewWorkerPool(1)
	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Error(t, p.Start())
}

func TestBufferPoolReuse(t *testing.T) {
	p := NewBufferPool(1, 64)

	buf := p.Get()
	require.Len(t, buf, 64)
	p.Put(buf)

	again := p.Get()
	assert.Len(t, again, 64)

	stats := p.Stats()
	assert.Equal(t, int64(2), stats.Gets)
}

func TestBufferPoolDropsForeignSizes(t *testing.T) {
	p := NewBufferPool(1, 64)

	p.Put(make([]byte, 32))
	buf := p.Get()
	assert.Len(t, buf, 64)
}
