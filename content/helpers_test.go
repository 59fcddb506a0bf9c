package content_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/innotter/auth"
	"github.com/goliatone/innotter/content"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	content.RegisterModels(db)

	models := []any{
		(*auth.User)(nil),
		(*content.Page)(nil),
		(*content.Post)(nil),
		(*content.Tag)(nil),
		(*content.PageTag)(nil),
		(*content.PageFollower)(nil),
		(*content.PageFollowRequest)(nil),
	}

	for _, model := range models {
		_, err = db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(context.Background())
		require.NoError(t, err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

func mustUser(t *testing.T, db *bun.DB, email string, role auth.Role) *auth.User {
	t.Helper()

	user, err := auth.NewUsersRepository(db).Register(context.Background(), &auth.User{
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	})
	require.NoError(t, err)

	return user
}

func mustPage(t *testing.T, repo content.RepositoryManager, owner *auth.User, name string) *content.Page {
	t.Helper()

	page, err := repo.Pages().Create(context.Background(), &content.Page{
		Name:    name,
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	return page
}

func identityOf(user *auth.User) auth.Identity {
	return auth.IdentityFromUser(user)
}

func mustFollow(t *testing.T, sm *content.FollowStateMachine, page *content.Page, owner, follower *auth.User) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, sm.RequestFollow(ctx, page.ID, follower.ID))

	accepted, err := sm.AcceptFollow(ctx, page.ID, identityOf(owner), []uuid.UUID{follower.ID})
	require.NoError(t, err)
	require.Equal(t, 1, accepted)
}
