package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit; longer passwords cannot be hashed.
const MaxPasswordBytes = 72

// dummyHash is compared against when a login names an unknown account,
// so both paths spend one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("recipehub-dummy-password"), bcrypt.DefaultCost)

// Hashpassword creates a bcrypt hash from the given plaintext password.
func Hashpassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided plaintext password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}

// BurnVerify runs a comparison against a fixed hash and discards the result.
func BurnVerify(providedPassword string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(providedPassword))
}

// IsWeakPassword reports whether the password is too short to register with.
func IsWeakPassword(password string) bool {
	return len(password) < MinPasswordLength
}

// IsTooLongPassword reports whether bcrypt would refuse to hash the password.
func IsTooLongPassword(password string) bool {
	return len(password) > MaxPasswordBytes
}
