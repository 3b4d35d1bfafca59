package service

import (
	"context"
	"testing"
	"time"

	"github.com/shapelessblog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthService, *TokenService, *db.User) {
	t.Helper()
	gdb := setupServiceTestDB(t)
	user := seedUser(t, gdb, "alice")
	tokens := NewTokenService(gdb)
	return NewAuthService(NewUserService(gdb), tokens, time.Hour), tokens, user
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	auth, _, user := newTestAuthService(t)
	ctx := context.Background()

	token, err := auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)
	assert.Len(t, token.Token, 64)

	second, err := auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, token.Token, second.Token)

	id, err := auth.Authenticate(ctx, "Bearer "+token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	id, err = auth.Authenticate(ctx, "Bearer "+second.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	auth, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginMalformedHash(t *testing.T) {
	gdb := setupServiceTestDB(t)
	require.NoError(t, gdb.Create(&db.User{Username: "broken", HashedPassword: "not-a-bcrypt-hash"}).Error)

	auth := NewAuthService(NewUserService(gdb), NewTokenService(gdb), 0)
	_, err := auth.Login(context.Background(), "broken", "whatever")
	assert.ErrorIs(t, err, ErrCredentialVerification)
}

func TestAuthService_AuthenticateHeaderErrors(t *testing.T) {
	auth, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{name: "empty", header: "", want: ErrNoAuthorizationHeader},
		{name: "no separator", header: "Bearer", want: ErrNoAuthorizationHeader},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", want: ErrInvalidAuthScheme},
		{name: "lowercase scheme", header: "bearer abc", want: ErrInvalidAuthScheme},
		{name: "unknown token", header: "Bearer 0123", want: ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Authenticate(ctx, tc.header)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthService_AuthenticateExpiredSweeps(t *testing.T) {
	auth, tokens, _ := newTestAuthService(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = fixedClock(start)

	token, err := auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	tokens.now = fixedClock(start.Add(time.Hour))
	_, err = auth.Authenticate(ctx, "Bearer "+token.Token)
	assert.ErrorIs(t, err, ErrExpiredToken, "expired_time itself counts as expired but the sweep only removes rows strictly before now")

	tokens.now = fixedClock(start.Add(2 * time.Hour))
	_, err = auth.Authenticate(ctx, "Bearer "+token.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	tokens.now = fixedClock(start.Add(3 * time.Hour))
	_, err = auth.Authenticate(ctx, "Bearer "+token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
