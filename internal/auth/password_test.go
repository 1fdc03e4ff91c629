// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash should not need rehash")
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_OlderArgon2Params(t *testing.T) {
	dbHash := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	valid, err := CheckPassword("changeme", dbHash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("stored hash rejected correct password")
	}
	if !NeedsRehash(dbHash) {
		t.Error("hash with older parameters should need rehash")
	}
}

func TestCheckPassword_Bcrypt(t *testing.T) {
	b, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	hash := string(b)

	valid, err := CheckPassword("admin123", hash)
	if err != nil || !valid {
		t.Fatalf("CheckPassword(bcrypt) = %v, %v", valid, err)
	}

	valid, err = CheckPassword("nope", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("bcrypt hash accepted wrong password")
	}

	if !NeedsRehash(hash) {
		t.Error("bcrypt hash should need rehash")
	}
}

func TestCheckPassword_Malformed(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
