package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	tokenStr, err := GenerateAccessToken(42, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	_, claims, err := ValidateAccessToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if id, ok := claims["id"].(float64); !ok || uint(id) != 42 {
		t.Fatalf("id claim = %v, want 42", claims["id"])
	}
	if claims["role"] != "user" {
		t.Fatalf("role claim = %v, want user", claims["role"])
	}
	if jti, ok := claims["jti"].(string); !ok || len(jti) != 32 {
		t.Fatalf("jti claim = %v, want 32-char string", claims["jti"])
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr, err := GenerateAccessTokenWithExpiry(7, "user", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessTokenWithExpiry: %v", err)
	}
	if _, _, err := ValidateAccessToken(tokenStr); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	tokenStr, err := GenerateAccessToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, _, err := ValidateAccessToken(tokenStr); err == nil {
		t.Fatal("token with wrong signature accepted")
	}
}

func TestAudienceEnforced(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "blockfortune-app")

	tokenStr, err := GenerateAccessToken(9, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, _, err := ValidateAccessToken(tokenStr); err != nil {
		t.Fatalf("matching audience rejected: %v", err)
	}

	t.Setenv("JWT_AUD", "someone-else")
	if _, _, err := ValidateAccessToken(tokenStr); err == nil {
		t.Fatal("wrong audience accepted")
	}
}
