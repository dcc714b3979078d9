package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/vietbevis/kma-training-support-sub000/config"
)

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseToken_Valid(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: "test-secret-0123456789"})

	now := time.Now()
	raw := sign(t, "test-secret-0123456789", Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := mgr.ParseToken(raw)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestParseToken_Expired(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: "test-secret-0123456789"})

	now := time.Now()
	raw := sign(t, "test-secret-0123456789", Claims{
		UserID: "user-1",
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(-time.Hour)),
		},
	})

	if _, err := mgr.ParseToken(raw); err != ErrTokenExpired {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: "test-secret-0123456789"})

	now := time.Now()
	raw := sign(t, "another-secret-9876543210", Claims{
		UserID: "user-1",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Hour)),
		},
	})

	if _, err := mgr.ParseToken(raw); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
