package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/backoffice-api/internal/models"
)

// NewsRepository handles persistence of news posts.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs the repository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create inserts a news post.
func (r *NewsRepository) Create(ctx context.Context, news *models.News) error {
	if news.ID == "" {
		news.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if news.CreatedAt.IsZero() {
		news.CreatedAt = now
	}
	news.UpdatedAt = now
	const query = `INSERT INTO news (id, title, content, author, created_at, updated_at)
        VALUES (:id, :title, :content, :author, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, news); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// FindByID returns a news post by id.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	const query = `SELECT id, title, content, author, created_at, updated_at FROM news WHERE id = $1`
	var news models.News
	if err := r.db.GetContext(ctx, &news, query, id); err != nil {
		return nil, err
	}
	return &news, nil
}

// List returns news posts, newest first, capped at limit when positive.
func (r *NewsRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	query := `SELECT id, title, content, author, created_at, updated_at FROM news ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// Update updates a news post.
func (r *NewsRepository) Update(ctx context.Context, news *models.News) error {
	news.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, news); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes a news post.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM news WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of news rows.
func (r *NewsRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM news`); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return total, nil
}
