package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/groupfund/groupfund/internal/model"
)

const expenseSelect = `
	SELECT e.id, e.amount, e.description, e.category_id, e.date, e.created_at, e.updated_at,
	       c.name, c.is_default
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id
`

// CreateExpense inserts an expense. On return e.Category is resolved.
func (r *Repository) CreateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expenses (id, amount, description, category_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Amount, e.Description, e.CategoryID, e.Date, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NewNotFound(model.EntityCategory, e.CategoryID)
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return r.resolveCategory(ctx, e)
}

// GetExpense retrieves an expense by its ID.
func (r *Repository) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx, expenseSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityExpense, id)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense overwrites the mutable fields of an expense.
func (r *Repository) UpdateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $2, description = $3, category_id = $4, date = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, e.ID, e.Amount, e.Description, e.CategoryID, e.Date, e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NewNotFound(model.EntityCategory, e.CategoryID)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound(model.EntityExpense, e.ID)
	}
	return r.resolveCategory(ctx, e)
}

// DeleteExpense removes an expense.
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound(model.EntityExpense, id)
	}
	return nil
}

// ListExpenses returns expenses newest first.
func (r *Repository) ListExpenses(ctx context.Context, limit int) ([]*model.Expense, error) {
	query, args := limitClause(expenseSelect+` ORDER BY e.date DESC, e.id DESC`, limit, nil)

	rows, err := r.pool.Query(ctx, query, args...)
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

func (r *Repository) resolveCategory(ctx context.Context, e *model.Expense) error {
	var c model.Category
	query := `SELECT id, name, is_default, created_at, updated_at FROM categories WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, e.CategoryID).Scan(&c.ID, &c.Name, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			e.Category = nil
			return nil
		}
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	e.Category = &c
	return nil
}

func scanExpense(row pgx.Row) (*model.Expense, error) {
	var (
		e         model.Expense
		name      *string
		isDefault *bool
	)
	err := row.Scan(
		&e.ID,
		&e.Amount,
		&e.Description,
		&e.CategoryID,
		&e.Date,
		&e.CreatedAt,
		&e.UpdatedAt,
		&name,
		&isDefault,
	)
	if err != nil {
		return nil, err
	}
	if name != nil {
		e.Category = &model.Category{ID: e.CategoryID, Name: *name}
		if isDefault != nil {
			e.Category.IsDefault = *isDefault
		}
	}
	return &e, nil
}
