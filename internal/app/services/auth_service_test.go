package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func newTestAuthService(f *fakeDirectory, tokens *fakeTokens) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "headta-test",
	})
	return NewAuthService(f, tokens, jwtService, zerolog.New(io.Discard))
}

func setPassword(t *testing.T, f *fakeDirectory, id int64, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	f.users[id].Password = hash
}

func TestLogin(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	setPassword(t, f, 1, "secret123")
	tokens := newFakeTokens()
	svc := newTestAuthService(f, tokens)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada.lovelace@example.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Contains(t, tokens.tokens, resp.Token.RefreshToken)
	assert.NotNil(t, f.users[1].LastLoginAt)
}

func TestLogin_Rejections(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	setPassword(t, f, 1, "secret123")
	f.addUser(2, "Grace", "Hopper", nil, 1)
	setPassword(t, f, 2, "secret123")
	f.users[2].IsActive = false
	f.addPlaceholder(3, "Alan", "Turing")
	svc := newTestAuthService(f, newFakeTokens())

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "wrong password", email: "ada.lovelace@example.edu", password: "nope1234", want: apperrors.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.edu", password: "secret123", want: apperrors.ErrInvalidCredentials},
		{name: "empty password", email: "ada.lovelace@example.edu", password: "", want: apperrors.ErrInvalidCredentials},
		{name: "inactive account", email: "grace.hopper@example.edu", password: "secret123", want: apperrors.ErrAccountDisabled},
		{name: "placeholder profile", email: "alan.turing@example.edu", password: "", want: apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	setPassword(t, f, 1, "secret123")
	tokens := newFakeTokens()
	svc := newTestAuthService(f, tokens)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada.lovelace@example.edu", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, login.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.RefreshToken)

	_, err = svc.RefreshToken(ctx, login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshToken_DisabledUserLosesSessions(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	setPassword(t, f, 1, "secret123")
	tokens := newFakeTokens()
	svc := newTestAuthService(f, tokens)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada.lovelace@example.edu", Password: "secret123"})
	require.NoError(t, err)
	f.users[1].IsActive = false

	_, err = svc.RefreshToken(ctx, login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	assert.Empty(t, tokens.tokens)
}

func TestLogout(t *testing.T) {
	f := newFakeDirectory()
	tokens := newFakeTokens()
	svc := newTestAuthService(f, tokens)
	require.NoError(t, tokens.CreateToken(context.Background(), "tok", 1, baseTime))

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.Empty(t, tokens.tokens)
	assert.ErrorIs(t, svc.Logout(context.Background(), " "), apperrors.ErrTokenInvalid)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("abcdefg1"))
	assert.ErrorIs(t, validatePassword("short1"), apperrors.ErrInvalidPassword)
	assert.ErrorIs(t, validatePassword("onlyletters"), apperrors.ErrInvalidPassword)
	assert.ErrorIs(t, validatePassword("12345678"), apperrors.ErrInvalidPassword)
}
