package service

import (
	"errors"
	"testing"
	"time"

	"ridelog_backend/internal/config"
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"
)

func newAuthService(t *testing.T, env *testEnv) *AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(env.db), env.stats, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	user := &model.User{Name: "新骑手", Email: "new@example.com", Password: "password123", Role: model.RoleUser}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "password123" {
		t.Error("password stored in plaintext")
	}
	if user.Profile == nil || user.Profile.DisplayName != "新骑手" {
		t.Error("profile not created with display name")
	}

	token, err := auth.Login("new@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, "unit-test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token UserID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	first := &model.User{Name: "甲", Email: "dup@example.com", Password: "password123"}
	if err := auth.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "乙", Email: "dup@example.com", Password: "password456"}
	if err := auth.Register(second); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate register: got %v, want ErrEmailRegistered", err)
	}
}

func TestLoginRejectsBadCredentialsAndDisabled(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	user := &model.User{Name: "被禁", Email: "banned@example.com", Password: "password123"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := auth.Login("banned@example.com", "wrong-password"); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("wrong password: got %v, want ErrUserNotFound", err)
	}
	if _, err := auth.Login("nobody@example.com", "password123"); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("unknown email: got %v, want ErrUserNotFound", err)
	}

	if err := env.users.SetDisabled(user.ID, true); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := auth.Login("banned@example.com", "password123"); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("disabled login: got %v, want ErrPermissionDenied", err)
	}
}
