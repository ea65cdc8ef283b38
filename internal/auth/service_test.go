package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanwiki/internal/common"
	"kanwiki/internal/database"
	"kanwiki/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	email := "bob@example.com"
	u := &models.User{Name: "bob", PwHash: "salt,hash", Email: &email}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	byName, err := repo.FindByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	require.NotNil(t, byName.Email)
	assert.Equal(t, email, *byName.Email)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Name)
	assert.Equal(t, "salt,hash", byID.PwHash)
}

func TestRepository_NullEmail(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "carol", PwHash: "x"}))

	u, err := repo.FindByName(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, u.Email)
}

func TestRepository_NotFound(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.FindByName(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_CreateDuplicateName(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "dave", PwHash: "x"}))
	err := repo.Create(ctx, &models.User{Name: "dave", PwHash: "y"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(SchemeSaltedSHA256, "erin", "pw123", "")
	require.NoError(t, err)
	assert.Zero(t, u.ID)
	assert.Equal(t, "erin", u.Name)
	assert.Nil(t, u.Email)
	assert.True(t, VerifyPassword("erin", "pw123", u.PwHash))

	u, err = NewUser(SchemeBcrypt, "erin", "pw123", "erin@example.com")
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	assert.True(t, VerifyPassword("erin", "pw123", u.PwHash))
}

func TestService_RegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), "")
	ctx := context.Background()

	u, err := svc.Register(ctx, "bob", "pw123", "")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := svc.Authenticate(ctx, "bob", "pw123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "pw123")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), SchemeSaltedSHA256)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "pw123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "other", "")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}
