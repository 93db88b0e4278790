// Package utils provides the credential and token primitives used by the
// auth handlers and middleware: bcrypt password hashing, the dual-path
// credential check, and signed session tokens.
package utils

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of plain using the given cost. Costs
// below the bcrypt minimum are raised to the library default so a zero-value
// config cannot produce unsalted-weak hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash and a plain password in constant time.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RandomPlaceholder returns a random secret for accounts that authenticate
// through a federated provider. The value is hashed and stored so the column
// is never empty, but it is unknowable and never accepted at login.
func RandomPlaceholder() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
