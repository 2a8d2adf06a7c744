package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestNewProcessor(t *testing.T) {
	_, err := NewProcessor[int](0)
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = NewProcessor[int](MaxBatchSize + 1)
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	p, err := NewProcessor[int](10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.GetBatchSize())
	assert.Equal(t, DefaultBatchSize, NewProcessorWithDefaults[int]().GetBatchSize())
}

func TestProcessor_Process(t *testing.T) {
	items := intItems(25)

	t.Run("Sequential", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		var processed, batches int

		err := p.Process(context.Background(), items, func(_ context.Context, batch []int, _ int) error {
			batches++
			processed += len(batch)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 25, processed)
		assert.Equal(t, 3, batches)
	})

	t.Run("ErrorStops", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		var calls int
		err := p.Process(context.Background(), items, func(_ context.Context, _ []int, i int) error {
			calls++
			if i == 1 {
				return errors.New("fail")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Validation", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		require.ErrorIs(t, p.Process(context.Background(), nil, func(context.Context, []int, int) error { return nil }), ErrEmptyItems)
		require.ErrorIs(t, p.Process(context.Background(), items, nil), ErrNilCallback)
	})
}

func TestProcessor_ProcessItems(t *testing.T) {
	items := intItems(23)
	p, _ := NewProcessor[int](5)

	var snapshots []ProgressSnapshot
	p.WithProgressCallback(func(s ProgressSnapshot) { snapshots = append(snapshots, s) })

	var sum atomic.Int64
	errOdd := errors.New("odd")
	err := p.ProcessItems(context.Background(), items, func(_ context.Context, item int) error {
		sum.Add(int64(item))
		if item == 7 || item == 13 {
			return errOdd
		}
		return nil
	}, 3)

	require.ErrorIs(t, err, errOdd)
	assert.Equal(t, int64(253), sum.Load(), "every item attempted despite failures")
	require.Len(t, snapshots, 5)
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 23, last.ProcessedItems)
	assert.InDelta(t, 100.0, last.PercentComplete, 0.001)
}

func TestCalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int](10)
	assert.Equal(t, [][2]int{{0, 10}, {10, 20}, {20, 25}}, p.CalculateBatches(25))
	assert.Empty(t, p.CalculateBatches(0))
}

func TestProgress(t *testing.T) {
	pr := NewProgress(10, 2, 5)
	assert.Zero(t, pr.EstimatedTimeRemaining())
	assert.False(t, pr.IsComplete())

	pr.AddProcessed(5)
	assert.InDelta(t, 50.0, pr.PercentComplete(), 0.001)

	pr.AddProcessed(5)
	assert.True(t, pr.IsComplete())
	assert.Equal(t, 2, pr.Snapshot().ProcessedBatches)
}
