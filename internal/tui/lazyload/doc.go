// Package lazyload defers loading a resource until its element is observed to
// intersect the viewport.
//
// A Model registers with a visibility.Observer when it is mounted (Init) and
// shows its placeholder, or a spinner skeleton, until revealed. The first
// intersecting observation reveals it for good: the observation is released
// and the primary reference is loaded through a Source. A failed load is
// retried exactly once with the fallback reference when one is configured.
// Completion and failure are reported through callbacks; once the model is
// torn down no callback runs and late results are discarded.
package lazyload
