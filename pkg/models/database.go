package models

import "time"

// RecordSummary is the list view of a stored feature record.
type RecordSummary struct {
	ID string // Database ID (UUID)
	Identity
	Computed  int // Features with a value
	Missing   int // Features stored as NULL
	CreatedAt time.Time
}
