package app

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// newID produces an internal identifier.
// Isolated here so the ID strategy can evolve independently.
func newID() string {
	return uuid.NewString()
}

var displayIDSpace = big.NewInt(1_000_000)

// newDisplayID draws a random 6-digit route number for humans.
// Uniqueness is the caller's concern.
func newDisplayID() (string, error) {
	n, err := rand.Int(rand.Reader, displayIDSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
