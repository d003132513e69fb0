package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/web-auth-service/internal/model"
	"github.com/iliyamo/web-auth-service/internal/repository"
	"github.com/iliyamo/web-auth-service/internal/token"
)

// fakeStore is an in-memory UserStore enforcing the same uniqueness
// rules as the users table.
type fakeStore struct {
	users  map[uint64]model.User
	nextID uint64
	err    error // when set, every storage call fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[uint64]model.User{}}
}

func (f *fakeStore) Create(_ context.Context, username, email, password string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return model.User{}, repository.ErrDuplicateCredential
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return model.User{}, err
	}
	f.nextID++
	now := time.Now().UTC()
	u := model.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) VerifyPassword(u model.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

func newTestService() (*AuthService, *fakeStore) {
	store := newFakeStore()
	return NewAuthService(store, token.NewService("test-secret")), store
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "alice@example.com", u.Email, "email is normalized")
	require.NotZero(t, u.ID)

	// The serialized form must never contain a password field.
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, strings.ToLower(string(raw)), "password")
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	tests := []struct {
		name                      string
		username, email, password string
	}{
		{"missing username", "", "a@example.com", "password123"},
		{"missing email", "alice", "", "password123"},
		{"missing password", "alice", "a@example.com", ""},
		{"short password", "alice", "a@example.com", "short12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice2", "alice@example.com", "password123")
	require.ErrorIs(t, err, repository.ErrDuplicateCredential)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "password123")
	require.ErrorIs(t, err, repository.ErrDuplicateCredential)
}

func TestRegister_StorageFailureIsGeneric(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()
	store.err = errors.New("connection refused: 10.0.0.5:3306")

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.ErrorIs(t, err, ErrInternal)
	require.NotContains(t, err.Error(), "10.0.0.5", "internal detail must not leak")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", res.User.Email)
	require.NotEmpty(t, res.Token)
	require.Len(t, res.CsrfToken, 64)

	// The issued token round-trips through the token service and names
	// the registered user as its subject.
	claims, err := svc.Tokens.Verify(res.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, res.User.ID, id)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(context.Background(), "alice@example.com", "password124")
	_, unknownEmailErr := svc.Login(context.Background(), "nobody@example.com", "password123")

	// Wrong password and unknown email are indistinguishable.
	require.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	require.Equal(t, wrongPassErr.Error(), unknownEmailErr.Error())
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	require.Equal(t, svc.Logout(), svc.Logout(), "logout always reports the same success outcome")
}

func TestMe(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	u := model.PublicUser{ID: 1, Username: "alice", Email: "alice@example.com"}

	got, err := svc.Me(u, true)
	require.NoError(t, err)
	require.Equal(t, u, got)

	_, err = svc.Me(model.PublicUser{}, false)
	require.ErrorIs(t, err, ErrInternal)
}
