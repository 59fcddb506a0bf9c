package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/goliatone/innotter/auth"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// testIdentity implements auth.Identity without a backing record.
type testIdentity struct {
	id       string
	username string
	email    string
	role     auth.Role
}

func (i testIdentity) ID() string       { return i.id }
func (i testIdentity) Username() string { return i.username }
func (i testIdentity) Email() string    { return i.email }
func (i testIdentity) Role() auth.Role  { return i.role }

func testConfig() auth.Config {
	return auth.Config{
		SigningKey:      []byte("test-signing-key"),
		Issuer:          "innotter-test",
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func mustRegister(t *testing.T, repo auth.Users, email, password string, role auth.Role) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Register(context.Background(), &auth.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)

	return user
}
