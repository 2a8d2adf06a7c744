package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 100

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// BatchCallback processes a single batch. batchIndex is 0-based.
//
//nolint:revive // BatchCallback is the canonical name for this exported type.
type BatchCallback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// ItemCallback processes a single item of a batch.
type ItemCallback[T any] func(ctx context.Context, item T) error

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor splits items into fixed-size batches.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a new batch processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with default batch size.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// GetBatchSize returns the configured batch size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// Process runs callback over each batch in order and stops on the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback BatchCallback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := items[b[0]:b[1]]
		if err := callback(ctx, batch, i); err != nil {
			return fmt.Errorf("batch %d failed: %w", i, err)
		}
		p.report(progress, len(batch))
	}

	return nil
}

// ProcessItems runs callback for every item, one batch at a time, with up to
// maxConcurrency items of a batch in flight. Item errors do not stop the run;
// they are joined and returned once every batch has been attempted.
func (p *Processor[T]) ProcessItems(
	ctx context.Context,
	items []T,
	callback ItemCallback[T],
	maxConcurrency int,
) error {
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	var errs []error
	err := p.Process(ctx, items, func(ctx context.Context, batch []T, _ int) error {
		results := make([]error, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrency)
		for i, item := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = callback(gctx, item)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, r := range results {
			if r != nil {
				errs = append(errs, r)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// CalculateBatches returns [start, end) index pairs for totalItems.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	total := p.calculateTotalBatches(totalItems)
	batches := make([][2]int, total)
	for i := range total {
		start := i * p.batchSize
		batches[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return batches
}

func (p *Processor[T]) calculateTotalBatches(totalItems int) int {
	return (totalItems + p.batchSize - 1) / p.batchSize
}

func (p *Processor[T]) report(progress *Progress, processed int) {
	progress.AddProcessed(processed)
	if p.onProgress != nil {
		p.onProgress(progress.Snapshot())
	}
}
