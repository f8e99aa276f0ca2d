package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// specialChars is the set a password must draw at least one symbol from.
const specialChars = "@$!%*?&"

const minLength = 8

// Hasher hashes and verifies passwords with bcrypt. The cost factor
// is fixed at construction.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher creates a Hasher with the given bcrypt cost. A
// non-positive cost falls back to 12; out-of-range costs are clamped.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = 12
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	// Pre-computed hash for DummyVerify. Cost matters, content does not.
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-comparison-subject"), cost)
	if err != nil {
		// Only reachable with an invalid cost, which is clamped above.
		panic(fmt.Sprintf("password: failed to prepare dummy hash: %v", err))
	}

	return &Hasher{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of the password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the password matches the stored hash.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyVerify burns one bcrypt comparison against a throwaway hash.
// Callers run it on a user lookup miss so a miss costs the same as a
// wrong password and the two cannot be told apart by timing.
func (h *Hasher) DummyVerify() {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte("not-the-dummy-subject"))
}

// Validate checks the password against the strength policy and
// returns every violated rule's message. All rules are checked
// independently; an empty result means the password is acceptable.
func (h *Hasher) Validate(password string) []string {
	var errors []string

	if len(password) < minLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		errors = append(errors, "Password must contain at least one number")
	}
	if !hasSpecial {
		errors = append(errors, "Password must contain at least one special character")
	}

	return errors
}
