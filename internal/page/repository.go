package page

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kanwiki/internal/common"
	"kanwiki/internal/models"
)

// Repository provides access to the page storage.
type Repository struct {
	DB  *sql.DB
	Now func() time.Time
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db, Now: time.Now}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FindByName returns the current record of the page called name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Page, error) {
	return findByName(ctx, r.DB, name)
}

func findByName(ctx context.Context, q queryer, name string) (*models.Page, error) {
	var p models.Page
	err := q.QueryRowContext(ctx, "SELECT id, name, content, created, last_modified FROM pages WHERE name = ?", name).
		Scan(&p.ID, &p.Name, &p.Content, &p.Created, &p.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error finding page: %w", err)
	}
	return &p, nil
}

// Save stores content as the current version of the page called name. When
// the page already exists its current record is archived into the history
// first, in the same transaction.
func (r *Repository) Save(ctx context.Context, name, content string) (*models.Page, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.Now().UTC()

	current, err := findByName(ctx, tx, name)
	switch {
	case errors.Is(err, common.ErrNotFound):
		res, err := tx.ExecContext(ctx, "INSERT INTO pages (name, content, created, last_modified) VALUES (?, ?, ?, ?)", name, content, now, now)
		if err != nil {
			return nil, fmt.Errorf("error creating page: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("error reading page id: %w", err)
		}
		current = &models.Page{ID: id, Name: name, Content: content, Created: now, LastModified: now}

	case err != nil:
		return nil, err

	default:
		if err := archive(ctx, tx, current); err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, "UPDATE pages SET content = ?, last_modified = ? WHERE id = ?", content, now, current.ID)
		if err != nil {
			return nil, fmt.Errorf("error updating page: %w", err)
		}
		current.Content = content
		current.LastModified = now
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return current, nil
}

func archive(ctx context.Context, tx *sql.Tx, p *models.Page) error {
	var version int
	err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) + 1 FROM page_history WHERE page_id = ?", p.ID).Scan(&version)
	if err != nil {
		return fmt.Errorf("error computing history version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO page_history (page_id, version, name, content, created, last_modified) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, version, p.Name, p.Content, p.Created, p.LastModified)
	if err != nil {
		return fmt.Errorf("error archiving page: %w", err)
	}
	return nil
}

// History lists the archived versions of the page called name, newest first.
func (r *Repository) History(ctx context.Context, name string) ([]models.PageHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, page_id, version, name, content, created, last_modified FROM page_history WHERE name = ? ORDER BY version DESC", name)
	if err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	defer rows.Close()

	var history []models.PageHistory
	for rows.Next() {
		var h models.PageHistory
		if err := rows.Scan(&h.ID, &h.PageID, &h.Version, &h.Name, &h.Content, &h.Created, &h.LastModified); err != nil {
			return nil, fmt.Errorf("error scanning history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	return history, nil
}

// Revision returns archived version of the page called name.
func (r *Repository) Revision(ctx context.Context, name string, version int) (*models.PageHistory, error) {
	var h models.PageHistory
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, page_id, version, name, content, created, last_modified FROM page_history WHERE name = ? AND version = ?", name, version).
		Scan(&h.ID, &h.PageID, &h.Version, &h.Name, &h.Content, &h.Created, &h.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error finding revision: %w", err)
	}
	return &h, nil
}

// List lists the current record of every page, ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Page, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, content, created, last_modified FROM pages ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Name, &p.Content, &p.Created, &p.LastModified); err != nil {
			return nil, fmt.Errorf("error scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
