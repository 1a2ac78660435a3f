package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikhilverma/shopline/config"
	"github.com/nikhilverma/shopline/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "admin" {
		t.Errorf("claims: got user=%d role=%q", claims.UserID, claims.Role)
	}
	if claims.Issuer != "shopline" {
		t.Errorf("issuer: got %q, want shopline", claims.Issuer)
	}
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	// A token signed with our secret but minted by another service.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "other-service",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := foreign.SignedString([]byte(config.JWTSecret()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ValidateToken(token); err == nil {
		t.Error("expected error for token from a foreign issuer")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken(1, "user")
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the signature segment.
	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := auth.ValidateToken(strings.Join(parts, ".")); err == nil {
		t.Error("expected error for tampered signature")
	}

	if _, err := auth.ValidateToken("not.a.jwt"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestRefreshTokenCarriesClaims(t *testing.T) {
	token, err := auth.GenerateRefreshToken(7, "user")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 {
		t.Errorf("got user %d", claims.UserID)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("password stored in plain text")
	}

	if !auth.CheckPassword(hash, "hunter2hunter2") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
