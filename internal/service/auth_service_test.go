package service

import (
	"buzz/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, "test-secret", time.Hour), users
}

func TestRegisterLoginVerifyRoundTrip(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
		FullName: "Alice A",
		Nickname: "alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Errorf("token response = %+v", resp)
	}
	if resp.User.ID == "" {
		t.Error("registered user has no id")
	}

	// The token from registration resolves back to the same user.
	user, err := svc.VerifyToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if user.ID != resp.User.ID || user.Email != "alice@example.com" {
		t.Errorf("verified user = %+v", user)
	}

	login, err := svc.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login resolved to %s, want %s", login.User.ID, resp.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := &model.RegisterRequest{Email: "bob@example.com", Password: "pw123456", Nickname: "bob"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second register: got %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &model.RegisterRequest{Email: "c@example.com", Password: "correct-pw", Nickname: "c"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "c@example.com", "wrong-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyTokenRejectsGarbageAndForeignKeys(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.VerifyToken(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}

	other := NewAuthService(newFakeUserRepo(), "different-secret", time.Hour)
	resp, err := svc.Register(ctx, &model.RegisterRequest{Email: "d@example.com", Password: "pw123456", Nickname: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.VerifyToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with another secret: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenForDeletedUser(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &model.RegisterRequest{Email: "e@example.com", Password: "pw123456", Nickname: "e"})
	if err != nil {
		t.Fatal(err)
	}
	users.mu.Lock()
	delete(users.users, resp.User.ID)
	users.mu.Unlock()

	if _, err := svc.VerifyToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token for a deleted user: got %v, want ErrInvalidToken", err)
	}
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &model.RegisterRequest{Email: "f@example.com", Password: "old-password", Nickname: "f"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateProfile(ctx, resp.User.ID, &model.ProfileUpdate{Nickname: "renamed", Password: "new-password"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Nickname != "renamed" {
		t.Errorf("nickname = %q", updated.Nickname)
	}

	if _, err := svc.Login(ctx, "f@example.com", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted after the change")
	}
	if _, err := svc.Login(ctx, "f@example.com", "new-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
