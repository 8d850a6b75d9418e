package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kamleshjangid/bakery-backend/pkg/config"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "bakery-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testConfig()
	adminID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), adminID)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != adminID {
		t.Fatalf("expected admin %s, got %s", adminID, claims.AdminID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()

	signed, err := MintAccessToken(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMintValidation(t *testing.T) {
	cfg := testConfig()

	missingSecret := cfg
	missingSecret.Secret = ""
	if _, err := MintAccessToken(missingSecret, time.Now(), uuid.New()); err == nil {
		t.Fatal("expected missing secret to fail")
	}

	if _, err := MintAccessToken(cfg, time.Now(), uuid.Nil); err == nil {
		t.Fatal("expected nil admin id to fail")
	}
}
