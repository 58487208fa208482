package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/groupfund/groupfund/internal/model"
)

// CreateCategory inserts a category; duplicate names are a conflict.
func (r *Repository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, name, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.IsDefault, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", c.Name, model.ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories returns all categories in creation order.
func (r *Repository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, is_default, created_at, updated_at
		FROM categories
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// EnsureDefaultCategories seeds defaults when the table is empty. Inserts
// skip names that already exist, so concurrent callers cannot duplicate
// them.
func (r *Repository) EnsureDefaultCategories(ctx context.Context, defaults []*model.Category) (int, error) {
	inserted := 0
	err := r.withTx(ctx, "seed categories", func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories)`).Scan(&exists); err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if exists {
			return nil
		}

		query := `
			INSERT INTO categories (id, name, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING
		`
		for _, c := range defaults {
			result, err := tx.Exec(ctx, query, c.ID, c.Name, c.IsDefault, c.CreatedAt, c.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert category %q: %w", c.Name, err)
			}
			inserted += int(result.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
