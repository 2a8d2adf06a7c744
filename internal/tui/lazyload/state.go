package lazyload

// Phase tracks the observation lifecycle. Phases only move forward.
type Phase int

const (
	// PhaseUnobserved is the state before mount.
	PhaseUnobserved Phase = iota
	// PhaseObserved means registered but not yet intersecting.
	PhaseObserved
	// PhaseRevealed means the element intersected once; it never leaves this phase.
	PhaseRevealed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnobserved:
		return "unobserved"
	case PhaseObserved:
		return "observed"
	case PhaseRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Status is the load outcome. Pending moves to Loaded or Errored exactly once.
type Status int

const (
	// StatusPending covers everything before a terminal outcome, fallback retry included.
	StatusPending Status = iota
	// StatusLoaded is terminal.
	StatusLoaded
	// StatusErrored is terminal.
	StatusErrored
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusLoaded || s == StatusErrored
}

// Role identifies which reference a load was for.
type Role int

const (
	// RolePlaceholder is the low-cost preview loaded at mount.
	RolePlaceholder Role = iota
	// RolePrimary is the main reference.
	RolePrimary
	// RoleFallback is the single retry after a primary failure.
	RoleFallback
)
