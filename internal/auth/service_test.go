package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"comandero/internal/config"
	"comandero/internal/domain"
	"comandero/internal/logger"
)

type fakeRepo struct {
	users map[string]User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: make(map[string]User)} }

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (User, error) {
	u, ok := f.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) Insert(_ context.Context, u User) error {
	f.users[u.Username] = u
	return nil
}

func newTestService() *Service {
	cfg := config.Auth{Secret: "test-secret", TokenTTL: time.Hour}
	return NewService(newFakeRepo(), cfg, logger.New("test"))
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "alice", "s3cret!", "Alice", domain.RoleWaiter)
	if err != nil {
		t.Fatal(err)
	}
	if created.Role != domain.RoleWaiter || created.Name != "Alice" {
		t.Fatalf("unexpected session: %+v", created)
	}

	session, err := svc.SignIn(ctx, "alice", "s3cret!")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Name != "Alice" || claims.Role != domain.RoleWaiter {
		t.Fatalf("claims do not carry the profile: %+v", claims)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "bob", "s3cret!", "Bob", domain.RoleCook); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignIn(ctx, "bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "carol", "short", "Carol", domain.RoleBarman); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.SignUp(ctx, "carol", "s3cret!", "Carol", domain.RoleBarman); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignUp(ctx, "carol", "s3cret!", "Carol Two", domain.RoleBarman); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	svc := newTestService()
	other := NewService(newFakeRepo(), config.Auth{Secret: "other-secret", TokenTTL: time.Hour}, logger.New("test"))

	session, err := other.SignUp(context.Background(), "dave", "s3cret!", "Dave", domain.RoleWaiter)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Verify(session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
