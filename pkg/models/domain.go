package models

import (
	"fmt"
	"time"
)

// Identity names one recording session.
type Identity struct {
	SubjectID int    // Participant number
	Condition string // Experimental condition label
	Round     int    // 1-based round within the session
}

// String renders the identity as "S<subject>/<condition>/R<round>".
func (id Identity) String() string {
	return fmt.Sprintf("S%d/%s/R%d", id.SubjectID, id.Condition, id.Round)
}

// FeatureRecord is one assembled feature row.
type FeatureRecord struct {
	ID string // Database ID (UUID), empty until stored
	Identity
	Features  map[string]float64 // NaN means "not computable"
	CreatedAt time.Time
}
