package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"kanwiki/internal/common"
	"kanwiki/internal/models"
)

// Repository provides access to the user storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByName finds a user by name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, name, pw_hash, email FROM users WHERE name = ?", name)
}

// FindByID finds a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, name, pw_hash, email FROM users WHERE id = ?", id)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.PwHash, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}

// Create persists user and sets its ID. A name that is already taken
// returns common.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO users (name, pw_hash, email) VALUES (?, ?, ?)", user.Name, user.PwHash, user.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading user id: %w", err)
	}
	user.ID = id
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
