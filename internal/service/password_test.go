package service

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesSaltedHash(t *testing.T) {
	hash, salt, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "" || salt == "" {
		t.Fatal("hash and salt must be non-empty")
	}
	if strings.Contains(hash, "correct horse") {
		t.Fatal("hash must not contain the plaintext")
	}

	// Same password, fresh salt, different hash.
	hash2, salt2, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if salt == salt2 {
		t.Fatal("two hashes must not share a salt")
	}
	if hash == hash2 {
		t.Fatal("two hashes with different salts must differ")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !VerifyPassword("hunter2hunter2", salt, hash) {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword("hunter2hunter3", salt, hash) {
		t.Fatal("wrong password must not verify")
	}
	if VerifyPassword("hunter2hunter2", "00000000000000000000000000000000", hash) {
		t.Fatal("wrong salt must not verify")
	}
}
