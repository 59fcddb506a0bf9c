package content_test

import (
	"context"
	"testing"

	"github.com/goliatone/innotter/auth"
	"github.com/goliatone/innotter/content"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowStateMachine_RequestFollow(t *testing.T) {
	db := setupDB(t)
	repo := content.NewRepositoryManager(db)
	sm := content.NewFollowStateMachine(repo)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", auth.RoleUser)
	follower := mustUser(t, db, "follower@example.com", auth.RoleUser)
	page := mustPage(t, repo, owner, "cats")

	t.Run("moves none to pending", func(t *testing.T) {
		require.NoError(t, sm.RequestFollow(ctx, page.ID, follower.ID))

		state, err := sm.State(ctx, page.ID, follower.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStatePending, state)
	})

	t.Run("re-requesting while pending is a no-op", func(t *testing.T) {
		require.NoError(t, sm.RequestFollow(ctx, page.ID, follower.ID))
		require.NoError(t, sm.RequestFollow(ctx, page.ID, follower.ID))

		state, err := sm.State(ctx, page.ID, follower.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStatePending, state)
	})

	t.Run("requesting while following never demotes", func(t *testing.T) {
		accepted, err := sm.AcceptFollow(ctx, page.ID, identityOf(owner), []uuid.UUID{follower.ID})
		require.NoError(t, err)
		require.Equal(t, 1, accepted)

		require.NoError(t, sm.RequestFollow(ctx, page.ID, follower.ID))

		state, err := sm.State(ctx, page.ID, follower.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStateFollowing, state)
	})

	t.Run("unknown page is a not-found", func(t *testing.T) {
		err := sm.RequestFollow(ctx, uuid.New(), follower.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, content.ErrPageNotFound)
	})
}

func TestFollowStateMachine_AcceptFollow(t *testing.T) {
	db := setupDB(t)
	repo := content.NewRepositoryManager(db)
	sm := content.NewFollowStateMachine(repo)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", auth.RoleUser)
	page := mustPage(t, repo, owner, "dogs")

	pending := mustUser(t, db, "pending@example.com", auth.RoleUser)
	stranger := mustUser(t, db, "stranger@example.com", auth.RoleUser)
	require.NoError(t, sm.RequestFollow(ctx, page.ID, pending.ID))

	t.Run("only the owner may accept", func(t *testing.T) {
		_, err := sm.AcceptFollow(ctx, page.ID, identityOf(stranger), []uuid.UUID{pending.ID})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrForbidden)

		state, err := sm.State(ctx, page.ID, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStatePending, state, "a rejected acceptance leaves both sets untouched")
	})

	t.Run("privileged roles are not exempt from the owner rule", func(t *testing.T) {
		admin := mustUser(t, db, "admin@example.com", auth.RoleAdmin)

		_, err := sm.AcceptFollow(ctx, page.ID, identityOf(admin), []uuid.UUID{pending.ID})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("non-pending targets are skipped silently", func(t *testing.T) {
		accepted, err := sm.AcceptFollow(ctx, page.ID, identityOf(owner), []uuid.UUID{
			pending.ID,
			stranger.ID, // never requested
		})
		require.NoError(t, err)
		assert.Equal(t, 1, accepted)

		state, err := sm.State(ctx, page.ID, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStateFollowing, state)

		state, err = sm.State(ctx, page.ID, stranger.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStateNone, state)
	})

	t.Run("accepting an already-accepted target moves nothing", func(t *testing.T) {
		accepted, err := sm.AcceptFollow(ctx, page.ID, identityOf(owner), []uuid.UUID{pending.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, accepted)

		state, err := sm.State(ctx, page.ID, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStateFollowing, state, "a user is in at most one set")
	})
}

func TestFollowStateMachine_MakePrivate(t *testing.T) {
	db := setupDB(t)
	repo := content.NewRepositoryManager(db)
	sm := content.NewFollowStateMachine(repo)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", auth.RoleUser)
	stranger := mustUser(t, db, "stranger@example.com", auth.RoleUser)
	page := mustPage(t, repo, owner, "birds")

	t.Run("only the owner may flip privacy", func(t *testing.T) {
		_, err := sm.MakePrivate(ctx, page.ID, identityOf(stranger))
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("owner makes the page private", func(t *testing.T) {
		updated, err := sm.MakePrivate(ctx, page.ID, identityOf(owner))
		require.NoError(t, err)
		assert.True(t, updated.IsPrivate)

		got, err := repo.Pages().GetByID(ctx, page.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPrivate)
	})

	t.Run("already private is a no-op", func(t *testing.T) {
		updated, err := sm.MakePrivate(ctx, page.ID, identityOf(owner))
		require.NoError(t, err)
		assert.True(t, updated.IsPrivate)
	})

	t.Run("privacy does not gate follow requests", func(t *testing.T) {
		require.NoError(t, sm.RequestFollow(ctx, page.ID, stranger.ID))

		state, err := sm.State(ctx, page.ID, stranger.ID)
		require.NoError(t, err)
		assert.Equal(t, content.FollowStatePending, state)
	})
}
