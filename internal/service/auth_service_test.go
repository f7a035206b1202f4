package service

import (
	"errors"
	"testing"

	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthTest(t *testing.T) (*AuthService, *repository.GormUserRepository) {
	t.Helper()
	env := setupWikiTest(t, false)
	userRepo := repository.NewUserRepository(env.db)
	svc := NewAuthService(userRepo, &config.JWTConfig{SecretKey: "test-jwt-secret-0123456789abcdef", ExpireHours: 1})

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := userRepo.Create(&models.User{
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Alias:        "Alice",
	}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return svc, userRepo
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _ := setupAuthTest(t)

	token, user, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	claims := &UserJWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-jwt-secret-0123456789abcdef"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "alice@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	svc, _ := setupAuthTest(t)
	if _, _, err := svc.Login("ALICE@Example.COM", "correct-horse"); err != nil {
		t.Fatalf("uppercase email login failed: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, userRepo := setupAuthTest(t)

	if _, _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrDenied) {
		t.Fatalf("wrong password want ErrDenied got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "x"); !errors.Is(err, ErrDenied) {
		t.Fatalf("unknown user want ErrDenied got %v", err)
	}

	user, err := userRepo.GetByEmail("alice@example.com")
	if err != nil || user == nil {
		t.Fatalf("load user failed: %v", err)
	}
	user.Disabled = true
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "correct-horse"); !errors.Is(err, ErrDenied) {
		t.Fatalf("disabled user want ErrDenied got %v", err)
	}
}
