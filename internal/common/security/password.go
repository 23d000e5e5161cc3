package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor used for new password hashes.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The salt is embedded
// in the returned hash, so two calls with the same input produce different
// but equally verifiable hashes.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches the given bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
