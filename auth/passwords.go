package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// workFactor is fixed; bcrypt embeds it in the hash so it can be raised
// later without rehashing existing records up front.
const workFactor = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	buf, err := bcrypt.GenerateFromPassword([]byte(plain), workFactor)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// VerifyPassword reports whether plain matches the stored hash. Any
// decode failure counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
