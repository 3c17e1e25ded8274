package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

// fakeUserRepo is an in-memory UserRepo enforcing username uniqueness the
// same way Postgres does: with a 23505 error.
type fakeUserRepo struct {
	nextID int64
	users  map[string]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]dom.User{}}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, ok := f.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	if _, ok := f.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	f.nextID++
	u := dom.User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	f.users[username] = u
	return u, nil
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	u, err := svc.Register(context.Background(), "newuser", "StrongPass!1", "StrongPass!1")
	require.NoError(t, err)
	assert.Equal(t, "newuser", u.Username)
	assert.Len(t, repo.users, 1)

	// The stored secret is a bcrypt hash of the submitted password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("StrongPass!1")))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	_, err := svc.Register(context.Background(), "newuser", "StrongPass!1", "different")
	ve := AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "password")
	assert.Empty(t, repo.users, "mismatch must fail before any row is created")
}

func TestRegister_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	_, err := svc.Register(context.Background(), "  ", "", "")
	ve := AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "taken", "pw", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "taken", "other", "other")
	ve := AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Len(t, repo.users, 1)
}

func TestValidateCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "s3cret", "s3cret")
	require.NoError(t, err)

	u, err := svc.ValidateCredentials(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// Wrong password and unknown username produce the same error so the API
	// cannot be used to enumerate accounts.
	_, errWrong := svc.ValidateCredentials(ctx, "alice", "nope")
	_, errUnknown := svc.ValidateCredentials(ctx, "bob", "s3cret")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
