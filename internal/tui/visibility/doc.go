// Package visibility reports when elements laid out in a scrolling column
// intersect the viewport.
//
// An Observer holds the viewport rectangle (the root), an optional root margin
// that grows the root on both edges, and the last known bounds of each
// registered element. Check compares every live registration against the
// root and emits a Msg for each one whose intersecting state changed.
// Registrations are released through the Subscription returned by Observe;
// a released target never produces another message.
//
// All methods are expected to run on the Bubble Tea update goroutine.
package visibility
