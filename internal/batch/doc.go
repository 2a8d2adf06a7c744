// Package batch processes large work lists in fixed-size batches.
//
// It backs bulk operations such as warming the thumbnail cache for an entire
// catalog: items are split into batches, each batch runs with bounded
// concurrency, and a progress callback reports after every batch.
package batch
