package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 120_000
	keyLengthBytes   = 32
	saltBytes        = 16
)

// HashPassword derives a PBKDF2-HMAC-SHA256 hash with a fresh random salt.
// Both values are returned hex-encoded for storage.
func HashPassword(password string) (hashHex, saltHex string, err error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLengthBytes, sha256.New)
	return hex.EncodeToString(hash), hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares in
// constant time.
func VerifyPassword(password, saltHex, hashHex string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	actual := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLengthBytes, sha256.New)
	return subtle.ConstantTimeCompare(expected, actual) == 1
}
