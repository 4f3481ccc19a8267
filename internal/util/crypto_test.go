package util

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "MinhaSenha123"

	hashed, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("not a bcrypt hash: %s", hashed)
	}

	if _, err := HashPassword("", 4); err == nil {
		t.Error("empty password should error")
	}

	// same password, different salt, different hash
	hashed2, _ := HashPassword(password, 4)
	if hashed == hashed2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "SenhaTeste456"
	hashed, _ := HashPassword(password, 4)

	if !CheckPassword(password, hashed) {
		t.Error("correct password rejected")
	}
	if CheckPassword("senha-errada", hashed) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", hashed) {
		t.Error("empty password accepted")
	}
	if CheckPassword(password, "") {
		t.Error("empty hash accepted")
	}
	if CheckPassword(password, "formato-invalido") {
		t.Error("invalid hash format accepted")
	}
}

func TestRandomToken(t *testing.T) {
	token, err := RandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// 32 bytes -> 43 chars of unpadded base64url
	if len(token) != 43 {
		t.Errorf("length: got %d, want 43", len(token))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token is not url-safe: %s", token)
	}

	token2, _ := RandomToken(32)
	if token == token2 {
		t.Error("two tokens should differ")
	}

	if _, err := RandomToken(0); err == nil {
		t.Error("zero length should error")
	}
	if _, err := RandomToken(-1); err == nil {
		t.Error("negative length should error")
	}
}
