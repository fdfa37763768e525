package service

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-for-unit-tests")
	InitJWT()
}

func TestJWTRoundTrip(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestJWTInvalidToken(t *testing.T) {
	initTestJWT(t)

	for _, token := range []string{
		"",
		"not-a-token",
		"aaaa.bbbb.cccc",
	} {
		if _, err := ParseJWT(token); err == nil {
			t.Errorf("ParseJWT(%q) succeeded, want error", token)
		}
	}
}

func TestJWTTamperedSignature(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateJWT(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseJWT(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestJWTRejectsForeignIssuer(t *testing.T) {
	initTestJWT(t)

	// token signed with our secret but carrying another service's claims
	claims := jwt.MapClaims{
		"iss":     "some-other-service",
		"user_id": int64(9),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
		"nbf":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT(token); err == nil {
		t.Error("token with foreign issuer accepted")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "secret-one")
	InitJWT()
	token, err := GenerateJWT(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	os.Setenv("JWT_SECRET", "secret-two")
	InitJWT()
	if _, err := ParseJWT(token); err == nil {
		t.Error("token signed with old secret accepted")
	}
}
