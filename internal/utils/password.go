package utils

import "golang.org/x/crypto/bcrypt"

// HashCredential returns the bcrypt hash of a plaintext credential. The
// result is what operators put in ADMIN_PASSWORD_HASH.
func HashCredential(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyCredential reports whether plain matches the stored bcrypt hash.
func VerifyCredential(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
