package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docqa/internal/model"
	"docqa/internal/pkg/jwtutil"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("amna123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeUserStore{users: map[string]*model.User{
		"amna@example.com": {ID: 1, Email: "amna@example.com", PasswordHash: string(hash)},
	}}
	return NewAuthService(store, "test-secret", 30*time.Minute), store
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "amna@example.com", "amna123")
	require.NoError(t, err)

	claims, err := jwtutil.ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "amna@example.com", claims.Subject)
}

func TestAuthServiceLogin_NormalizesEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, err := svc.Login(context.Background(), "  Amna@Example.COM ", "amna123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthServiceLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "amna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthServiceLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "amna123")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthServiceLogin_EmptyInput(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthServiceAuthenticate(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "amna@example.com", "amna123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "amna@example.com", user.Email)
}

func TestAuthServiceAuthenticate_BadToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceAuthenticate_ExpiredToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	expired, err := jwtutil.GenerateToken("test-secret", -1*time.Minute, "amna@example.com")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceAuthenticate_UnknownSubject(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, err := jwtutil.GenerateToken("test-secret", 30*time.Minute, "ghost@example.com")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
