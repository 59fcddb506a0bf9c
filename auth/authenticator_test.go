package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/innotter/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Login(t *testing.T) {
	db := setupDB(t)
	repo := auth.NewUsersRepository(db)
	auther := auth.NewAuthenticator(repo, testConfig())

	user := mustRegister(t, repo, "alice@example.com", "sekret", auth.RoleUser)
	ctx := context.Background()

	t.Run("returns a token pair on valid credentials", func(t *testing.T) {
		pair, err := auther.Login(ctx, "alice@example.com", "sekret")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := auther.TokenService().Validate(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, auth.RoleUser, claims.Role())
		assert.True(t, claims.IsKind(auth.TokenKindAccess))
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, badPassword := auther.Login(ctx, "alice@example.com", "wrong")
		_, unknownEmail := auther.Login(ctx, "nobody@example.com", "sekret")

		require.Error(t, badPassword)
		require.Error(t, unknownEmail)
		assert.ErrorIs(t, badPassword, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknownEmail, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, badPassword.Error(), unknownEmail.Error())
	})

	t.Run("blocked accounts cannot log in", func(t *testing.T) {
		blocked := mustRegister(t, repo, "mallory@example.com", "sekret", auth.RoleUser)
		_, err := repo.Block(ctx, blocked.ID)
		require.NoError(t, err)

		_, err = auther.Login(ctx, "mallory@example.com", "sekret")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUserBlocked)
	})
}

func TestAuthenticator_Refresh(t *testing.T) {
	db := setupDB(t)
	repo := auth.NewUsersRepository(db)
	cfg := testConfig()
	auther := auth.NewAuthenticator(repo, cfg)

	user := mustRegister(t, repo, "bob@example.com", "sekret", auth.RoleUser)
	ctx := context.Background()

	pair, err := auther.Login(ctx, "bob@example.com", "sekret")
	require.NoError(t, err)

	t.Run("exchanges a refresh token for a new pair", func(t *testing.T) {
		fresh, err := auther.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, fresh.AccessToken)
		require.NotEmpty(t, fresh.RefreshToken)

		claims, err := auther.TokenService().Validate(fresh.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		_, err := auther.Refresh(ctx, pair.AccessToken)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrTokenWrongKind)
	})

	t.Run("rejects a refresh token for a user blocked since issuance", func(t *testing.T) {
		blocked := mustRegister(t, repo, "carol@example.com", "sekret", auth.RoleUser)
		blockedPair, err := auther.Login(ctx, "carol@example.com", "sekret")
		require.NoError(t, err)

		_, err = repo.Block(ctx, blocked.ID)
		require.NoError(t, err)

		_, err = auther.Refresh(ctx, blockedPair.RefreshToken)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUserBlocked)
	})

	t.Run("rejects an expired refresh token", func(t *testing.T) {
		past := time.Now().Add(-2 * cfg.RefreshTokenTTL)
		stale := auth.NewTokenService(cfg, nil).WithClock(func() time.Time { return past })

		raw, err := stale.Issue(auth.IdentityFromUser(user), auth.TokenKindRefresh)
		require.NoError(t, err)

		_, err = auther.Refresh(ctx, raw)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("rejects a refresh token for a deleted user", func(t *testing.T) {
		gone := mustRegister(t, repo, "dave@example.com", "sekret", auth.RoleUser)
		gonePair, err := auther.Login(ctx, "dave@example.com", "sekret")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(ctx, gone.ID))

		_, err = auther.Refresh(ctx, gonePair.RefreshToken)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
