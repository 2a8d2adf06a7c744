package cache

import "time"

// Entry is one cached resource body. Entries are stored as JSON, one file
// per key.
type Entry struct {
	// Key is Key(Ref).
	Key         string    `json:"key"`
	Ref         string    `json:"ref"`
	ContentType string    `json:"content_type,omitempty"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewEntry creates an entry for ref that expires ttlSeconds from now.
func NewEntry(ref, contentType string, data []byte, ttlSeconds int) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:         Key(ref),
		Ref:         ref,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(ttlSeconds) * time.Second),
	}
}

// IsExpired reports whether the entry's expiry time has passed.
func (e *Entry) IsExpired() bool {
	return !time.Now().Before(e.ExpiresAt)
}

// Remaining returns how long the entry stays fresh, or 0 once expired.
func (e *Entry) Remaining() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}
