package auth

import (
	"testing"
	"time"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "dispute-backend", 15*time.Minute, 7*24*time.Hour)
}

func TestGeneratePairRoundtrip(t *testing.T) {
	tm := newTestManager()
	roles := []string{"CUSTOMER", "DISPUTE_ADMIN"}

	access, refresh, exp, err := tm.GeneratePair("u-1", roles)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Fatal("access expiry must be in the future")
	}

	ac, err := tm.ParseAccess(access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if ac.UserID != "u-1" || len(ac.Roles) != 2 || ac.Roles[1] != "DISPUTE_ADMIN" {
		t.Fatalf("unexpected access claims: %+v", ac)
	}

	rc, err := tm.ParseRefresh(refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if rc.UserID != "u-1" {
		t.Fatalf("unexpected refresh claims: %+v", rc)
	}
}

func TestParseRejectsCrossedTokenTypes(t *testing.T) {
	tm := newTestManager()
	access, refresh, _, err := tm.GeneratePair("u-1", []string{"CUSTOMER"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := tm.ParseAccess(refresh); err == nil {
		t.Fatal("refresh token must not pass access validation")
	}
	if _, err := tm.ParseRefresh(access); err == nil {
		t.Fatal("access token must not pass refresh validation")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("other-secret", "other-refresh", "dispute-backend", time.Minute, time.Hour)
	access, _, _, err := other.GeneratePair("u-1", []string{"CUSTOMER"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := newTestManager().ParseAccess(access); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := VerifyPassword("s3cret-pw", hash); err != nil {
		t.Fatalf("correct password must verify: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Fatal("wrong password must not verify")
	}
}
