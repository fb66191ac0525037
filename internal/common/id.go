package common

import (
	"github.com/google/uuid"
)

// NewSymptomID generates a unique symptom entry ID
// Format: sym_<uuid>
func NewSymptomID() string {
	return "sym_" + uuid.New().String()
}

// NewCycleID generates a unique cycle entry ID
// Format: cyc_<uuid>
func NewCycleID() string {
	return "cyc_" + uuid.New().String()
}
