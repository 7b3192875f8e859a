package util

import (
	"testing"
	"time"

	"ridelog_backend/internal/model"
)

func testUser() *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Name:      "骑手",
		Email:     "rider@example.com",
		Role:      model.RoleUser,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleUser {
		t.Errorf("Role = %q, want user", claims.Role)
	}
	if claims.Email != "rider@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Fatal("expired token accepted")
	}
}
