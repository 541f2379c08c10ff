package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Ayavuzer/manushotspot/core/store"
)

func testUser() *store.User {
	orgID := int64(3)
	return &store.User{
		ID:             12,
		Username:       "manager",
		Email:          "manager@hotel.example",
		RoleID:         2,
		IsSuperAdmin:   false,
		OrganizationID: &orgID,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
	token, err := issuer.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	claims, err := issuer.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID != 12 || claims.Username != "manager" || claims.Email != "manager@hotel.example" {
		t.Fatalf("identity claims: %+v", claims)
	}
	if claims.RoleID != 2 || claims.IsSuperAdmin {
		t.Fatalf("role claims: %+v", claims)
	}
	if claims.OrganizationID == nil || *claims.OrganizationID != 3 {
		t.Fatalf("organization claim: %+v", claims.OrganizationID)
	}
}

func TestRefreshTokenCarriesOnlyUserID(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
	token, err := issuer.IssueRefreshToken(42)
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	claims, err := issuer.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if claims.ID != 42 {
		t.Fatalf("user id claim: %d", claims.ID)
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
	a, _ := issuer.IssueRefreshToken(1)
	b, _ := issuer.IssueRefreshToken(1)
	if a == b {
		t.Fatal("consecutive refresh tokens are identical")
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour, 7*24*time.Hour)
	token, _ := issuer.IssueAccessToken(testUser())

	if _, err := issuer.ParseAccessToken(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token: %v", err)
	}
	if _, err := other.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: %v", err)
	}
	if _, err := issuer.ParseAccessToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)
	token, _ := issuer.IssueAccessToken(testUser())
	if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}
