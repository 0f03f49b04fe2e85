package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the rest of the system has always hashed with.
// Raising it invalidates nothing (bcrypt encodes the cost per hash) but slows
// signup/login proportionally.
const bcryptCost = 10

// HashPassword returns the bcrypt hash of a plaintext password. The plaintext
// is never stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
