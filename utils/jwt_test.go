package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" || claims.Role != "user" {
		t.Errorf("claims = %+v, want user-1/alice@example.com/user", claims)
	}
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseAccessToken(token + "x"); err == nil {
		t.Error("tampered token parsed without error")
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if _, err := ParseAccessToken(token); err == nil {
		t.Error("token signed with another secret parsed without error")
	}
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateAccessToken("user-1", "a@b.com", "user"); err == nil {
		t.Error("want error without JWT_SECRET")
	}
}
