package users

import (
	"context"
	"testing"
	"time"

	"github.com/dishcovery-app/dishcovery-backend/pkg/db"
	"github.com/dishcovery-app/dishcovery-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)

	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "argon-hash",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func TestRepositoryFindByUsername(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	seeded := seedUser(t, conn, "foodie42")

	found, err := repo.FindByUsername(context.Background(), "foodie42")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "foodie42@example.com", found.Email)

	_, err = repo.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByID(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	seeded := seedUser(t, conn, "foodie42")

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "foodie42", found.Username)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateUsername(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	seedUser(t, conn, "foodie42")

	_, err := repo.Create(context.Background(), CreateUserDTO{Username: "foodie42", PasswordHash: "other"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	seeded := seedUser(t, conn, "foodie42")
	require.Nil(t, seeded.LastLoginAt)

	at := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(context.Background(), seeded.ID, at))

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))
}
