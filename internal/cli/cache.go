package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/batch"
	"github.com/rshade/bizdeck/internal/cache"
	"github.com/rshade/bizdeck/internal/format"
)

// Cache warm defaults.
const (
	defaultWarmBatchSize   = 50
	defaultWarmConcurrency = 8
)

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show thumbnail cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheStore()
			if err != nil {
				return err
			}
			if !store.Enabled() {
				cmd.Println("Cache is disabled")
				return nil
			}
			stats, err := store.Stats()
			if err != nil {
				return err
			}
			cmd.Printf("Directory: %s\n", stats.Directory)
			cmd.Printf("Entries:   %s (%s expired)\n",
				format.FormatNumber(int64(stats.Entries)), format.FormatNumber(int64(stats.Expired)))
			cmd.Printf("Size:      %s\n", format.FormatBytes(stats.Bytes))
			cmd.Printf("TTL:       %s\n", cache.FormatDuration(time.Duration(stats.TTL)*time.Second))
			return nil
		},
	}
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached thumbnails",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheStore()
			if err != nil {
				return err
			}
			if !store.Enabled() {
				return cache.ErrCacheDisabled
			}

			var removed int
			if expiredOnly {
				removed, err = store.CleanupExpired()
			} else {
				removed, err = store.Clear()
			}
			if err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Int("removed", removed).Bool("expired_only", expiredOnly).Msg("cache cleared")
			cmd.Printf("Removed %s cache entries\n", format.FormatNumber(int64(removed)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}

// NewCacheWarmCmd creates the cache warm command, which prefetches every
// catalog thumbnail.
func NewCacheWarmCmd() *cobra.Command {
	var (
		batchSize   int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch every catalog thumbnail into the cache",
		Example: `  # Warm with 16 fetches in flight
  bizdeck cache warm --concurrency 16`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheWarm(cmd, batchSize, concurrency)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", defaultWarmBatchSize, "refs per batch")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultWarmConcurrency, "fetches in flight per batch")
	return cmd
}

// warmResult tallies one warm run.
type warmResult struct {
	fetched atomic.Int64
	fresh   atomic.Int64
	failed  atomic.Int64
}

func runCacheWarm(cmd *cobra.Command, batchSize, concurrency int) error {
	ctx := cmd.Context()

	service, store, err := newResourceService()
	if err != nil {
		return err
	}
	if !store.Enabled() {
		return cache.ErrCacheDisabled
	}

	catalogStore, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer catalogStore.Close()

	refs, err := catalogStore.ImageRefs(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		cmd.Println("No thumbnails to warm")
		return nil
	}

	processor, err := batch.NewProcessor[string](batchSize)
	if err != nil {
		return err
	}
	processor.WithProgressCallback(func(s batch.ProgressSnapshot) {
		logger.Debug().Ctx(ctx).
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Float64("percent", s.PercentComplete).
			Msg("cache warm progress")
	})

	var result warmResult
	warmErr := processor.ProcessItems(ctx, refs, func(ctx context.Context, ref string) error {
		fetched, err := service.Warm(ctx, ref)
		switch {
		case err != nil:
			result.failed.Add(1)
			return fmt.Errorf("%s: %w", ref, err)
		case fetched:
			result.fetched.Add(1)
		default:
			result.fresh.Add(1)
		}
		return nil
	}, concurrency)

	cmd.Printf("Fetched %d, already cached %d, failed %d\n",
		result.fetched.Load(), result.fresh.Load(), result.failed.Load())

	if warmErr != nil {
		if errors.Is(warmErr, context.Canceled) {
			return warmErr
		}
		// missing refs are expected for products with a fallback
		logger.Warn().Ctx(ctx).Err(warmErr).Int64("failed", result.failed.Load()).Msg("some thumbnails could not be fetched")
	}
	return nil
}
