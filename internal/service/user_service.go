package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
	"github.com/Gersa28/Invera-ToDo-List/internal/repo"
	"github.com/Gersa28/Invera-ToDo-List/internal/utils"
)

const maxUsernameLen = 150

// UserService handles registration and credential checks.
type UserService struct {
	repo repo.UserRepo
	log  *slog.Logger
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{repo: repo, log: log}
}

// ValidateCredentials checks username and password; returns the user if valid.
// Unknown username and wrong password produce the same error so callers
// cannot enumerate accounts.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", "username", username)
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with a hashed password. The password must be
// submitted twice; a mismatch fails before any row is written. A duplicate
// username is a validation error as well.
func (s *UserService) Register(ctx context.Context, username, password, password2 string) (dom.User, error) {
	username = strings.TrimSpace(username)

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "username is required"
	} else if len(username) > maxUsernameLen {
		fields["username"] = "username must be at most 150 characters"
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if password != password2 {
		fields["password"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return dom.User{}, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, &ValidationError{Fields: map[string]string{
				"username": "username already taken",
			}}
		}
		return dom.User{}, err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}
