package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherPreservesSubmissionOrder(t *testing.T) {
	out := gather(context.Background(), 4, 5, slog.Default(),
		func(_ context.Context, idx int) ([]int, error) {
			// later tasks finish first
			time.Sleep(time.Duration(5-idx) * time.Millisecond)
			return []int{idx * 10, idx*10 + 1}, nil
		})

	assert.Equal(t, []int{0, 1, 10, 11, 20, 21, 30, 31, 40, 41}, out)
}

func TestGatherContainsTaskFailure(t *testing.T) {
	out := gather(context.Background(), 2, 2, slog.Default(),
		func(_ context.Context, idx int) ([]string, error) {
			if idx == 0 {
				return nil, errors.New("retries exhausted")
			}
			return []string{"a", "b", "c"}, nil
		})

	// the failed slot is empty, the sibling's items all survive
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestGatherBoundsConcurrency(t *testing.T) {
	const workers = 2
	var active, peak atomic.Int32

	gather(context.Background(), workers, 10, slog.Default(),
		func(_ context.Context, _ int) ([]int, error) {
			cur := active.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			active.Add(-1)
			return nil, nil
		})

	require.LessOrEqual(t, peak.Load(), int32(workers))
}

func TestGatherZeroTasks(t *testing.T) {
	out := gather(context.Background(), 3, 0, slog.Default(),
		func(_ context.Context, _ int) ([]int, error) {
			t.Error("task must not run")
			return nil, nil
		})
	assert.Empty(t, out)
}
