package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
)

func testService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "schoolsphere.test",
	})
}

func testStaff() *models.Staff {
	return &models.Staff{
		ID:    42,
		Email: "alice@school.test",
		Role:  models.RoleTeacher,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.StaffID != 42 {
		t.Errorf("StaffID = %d, want 42", claims.StaffID)
	}
	if claims.Email != "alice@school.test" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != string(models.RoleTeacher) {
		t.Errorf("Role = %q, want TEACHER", claims.Role)
	}
	if claims.Issuer != "schoolsphere.test" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService(-time.Minute)

	token, _, err := svc.GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := testService(time.Hour).GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "different", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with another secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testService(time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); err == nil {
			t.Errorf("ValidateToken(%q) accepted garbage", tok)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer prefix", "Bearer abc123", "abc123", false},
		{"raw token", "abc123", "abc123", false},
		{"empty header", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractBearerToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sekret123!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "Sekret123!" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "Sekret123!") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
