package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"comandero/internal/config"
	"comandero/internal/domain"
	"comandero/internal/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// Session is what a successful sign-in hands back: a bearer token plus
// the profile the clients key their role filters on.
type Session struct {
	Token string      `json:"token"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type Service struct {
	repo RepositoryInterface
	cfg  config.Auth
	lg   *logger.Logger
}

func NewService(repo RepositoryInterface, cfg config.Auth, lg *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, lg: lg}
}

func (s *Service) SignUp(ctx context.Context, username, password, name string, role domain.Role) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(name) == "" {
		return Session{}, ErrInvalidCredentials
	}
	if len(password) < 6 {
		return Session{}, ErrWeakPassword
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return Session{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return Session{}, err
	}

	s.lg.Info("user_signed_up", map[string]any{"username": username, "role": string(role)})
	return s.session(u)
}

func (s *Service) SignIn(ctx context.Context, username, password string) (Session, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	s.lg.Info("user_signed_in", map[string]any{"username": u.Username, "role": string(u.Role)})
	return s.session(u)
}

func (s *Service) session(u User) (Session, error) {
	token, err := generateToken([]byte(s.cfg.Secret), s.cfg.TokenTTL, u.ID.String(), u.Name, u.Role)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, Name: u.Name, Role: u.Role}, nil
}

// Verify parses a bearer token back into its claims.
func (s *Service) Verify(signed string) (*Claims, error) {
	return parseToken([]byte(s.cfg.Secret), signed)
}
