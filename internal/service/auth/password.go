package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on success, or an error on mismatch. A wrong
	// password is an expected outcome, not an exceptional one.
	Compare(hashedPassword, password string) error
}

// PasswordHasher defines the interface for one-way password hashing.
type PasswordHasher interface {
	// Hash produces an opaque, salted hash of the plaintext password.
	Hash(password string) (string, error)
}

// BcryptHasher implements PasswordHasher and PasswordVerifier using bcrypt.
// bcrypt embeds its own salt and cost in the hash, and its comparison does
// not leak timing information proportional to how much of the password
// matched.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost of 0
// selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// NewBcryptVerifier creates a PasswordVerifier backed by bcrypt at the
// default cost. Verification reads the cost from the stored hash, so the
// configured cost is irrelevant here.
func NewBcryptVerifier() PasswordVerifier {
	return NewBcryptHasher(0)
}

// Hash implements PasswordHasher using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare implements PasswordVerifier using bcrypt.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
