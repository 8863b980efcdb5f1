// Package dbtest opens isolated in-memory SQLite databases carrying the
// service schema, for repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
)

// Open returns a client bound to a fresh in-memory database. The pool is
// limited to one connection, so concurrent transactions serialise the same
// way row locks make them serialise on postgres.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.EnsureSQLiteSchema(); err != nil {
		t.Fatalf("bootstrap schema: %v", err)
	}
	return client
}

// CreateUser inserts a player with the given username.
func CreateUser(t testing.TB, client *db.Client, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     enums.UserRolePlayer,
	}
	if err := client.DB().Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateGame inserts a game with the given name.
func CreateGame(t testing.TB, client *db.Client, name string) models.Game {
	t.Helper()
	game := models.Game{Name: name, GameType: enums.GameTypeSport, BasePoints: 10}
	if err := client.DB().Create(&game).Error; err != nil {
		t.Fatalf("create game %s: %v", name, err)
	}
	return game
}
