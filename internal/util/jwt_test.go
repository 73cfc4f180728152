package util

import (
	"elearn_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "student@example.com",
		Role:      model.Student,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "student@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Fatal("expected error when parsing with wrong secret")
	}
}

func TestMustParseUint(t *testing.T) {
	if got := MustParseUint("17"); got != 17 {
		t.Errorf("expected 17, got %d", got)
	}
	if got := MustParseUint("abc"); got != 0 {
		t.Errorf("expected 0 for invalid input, got %d", got)
	}
}
