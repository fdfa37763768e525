package idgen

import "github.com/google/uuid"

// Generator produces collision-resistant identifiers for ledger transaction
// numbers and subscription order ids.
type Generator interface {
	New() string
}

// UUID generates random (v4) UUID strings.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
