package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groupfund/groupfund/internal/model"
)

// CreateCategory inserts a category; duplicate names are a conflict.
func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, name, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.IsDefault, toMicros(c.CreatedAt), toMicros(c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", c.Name, model.ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories returns all categories in creation order.
func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_default, created_at, updated_at
		FROM categories
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		var (
			c                    model.Category
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDefault, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.CreatedAt = fromMicros(createdAt)
		c.UpdatedAt = fromMicros(updatedAt)
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// EnsureDefaultCategories seeds defaults when the table is empty.
func (s *Store) EnsureDefaultCategories(ctx context.Context, defaults []*model.Category) (int, error) {
	inserted := 0
	err := s.withTx(ctx, "seed categories", func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories)`).Scan(&exists); err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if exists {
			return nil
		}

		query := `
			INSERT INTO categories (id, name, is_default, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (name) DO NOTHING
		`
		for _, c := range defaults {
			result, err := tx.ExecContext(ctx, query, c.ID, c.Name, c.IsDefault, toMicros(c.CreatedAt), toMicros(c.UpdatedAt))
			if err != nil {
				return fmt.Errorf("insert category %q: %w", c.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("read affected rows: %w", err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
