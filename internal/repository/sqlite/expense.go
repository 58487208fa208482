package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groupfund/groupfund/internal/model"
)

const expenseSelect = `
	SELECT e.id, e.amount_minor, e.description, e.category_id, e.date, e.created_at, e.updated_at,
	       c.name, c.is_default
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id
`

// CreateExpense inserts an expense. On return e.Category is resolved.
func (s *Store) CreateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expenses (id, amount_minor, description, category_id, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, model.ToMinor(e.Amount), e.Description, e.CategoryID,
		toMicros(e.Date), toMicros(e.CreatedAt), toMicros(e.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NewNotFound(model.EntityCategory, e.CategoryID)
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return s.resolveCategory(ctx, e)
}

// GetExpense retrieves an expense by its ID.
func (s *Store) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityExpense, id)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense overwrites the mutable fields of an expense.
func (s *Store) UpdateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		UPDATE expenses
		SET amount_minor = ?, description = ?, category_id = ?, date = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		model.ToMinor(e.Amount), e.Description, e.CategoryID, toMicros(e.Date), toMicros(e.UpdatedAt), e.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NewNotFound(model.EntityCategory, e.CategoryID)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.NewNotFound(model.EntityExpense, e.ID)
	}
	return s.resolveCategory(ctx, e)
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.NewNotFound(model.EntityExpense, id)
	}
	return nil
}

// ListExpenses returns expenses newest first.
func (s *Store) ListExpenses(ctx context.Context, limit int) ([]*model.Expense, error) {
	query, args := limitClause(expenseSelect+` ORDER BY e.date DESC, e.id DESC`, limit, nil)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) resolveCategory(ctx context.Context, e *model.Expense) error {
	var (
		c                    model.Category
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_default, created_at, updated_at FROM categories WHERE id = ?`, e.CategoryID,
	).Scan(&c.ID, &c.Name, &c.IsDefault, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			e.Category = nil
			return nil
		}
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	c.CreatedAt = fromMicros(createdAt)
	c.UpdatedAt = fromMicros(updatedAt)
	e.Category = &c
	return nil
}

func scanExpense(row scanner) (*model.Expense, error) {
	var (
		e                          model.Expense
		amount                     int64
		date, createdAt, updatedAt int64
		name                       sql.NullString
		isDefault                  sql.NullBool
	)
	err := row.Scan(&e.ID, &amount, &e.Description, &e.CategoryID, &date, &createdAt, &updatedAt, &name, &isDefault)
	if err != nil {
		return nil, err
	}
	e.Amount = model.FromMinor(amount)
	e.Date = fromMicros(date)
	e.CreatedAt = fromMicros(createdAt)
	e.UpdatedAt = fromMicros(updatedAt)
	if name.Valid {
		e.Category = &model.Category{ID: e.CategoryID, Name: name.String, IsDefault: isDefault.Bool}
	}
	return &e, nil
}
