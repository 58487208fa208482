package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/model"
)

const depositSelect = `
	SELECT d.id, d.amount, d.contributor_id, d.date, d.created_at, d.updated_at,
	       p.name, p.total_contributed
	FROM deposits d
	LEFT JOIN participants p ON p.id = d.contributor_id
`

// CreateDeposit inserts d and credits the contributor in one transaction.
// On return d.Contributor is resolved.
func (r *Repository) CreateDeposit(ctx context.Context, d *model.Deposit) error {
	return r.withTx(ctx, "create deposit", func(tx pgx.Tx) error {
		query := `
			INSERT INTO deposits (id, amount, contributor_id, date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, query, d.ID, d.Amount, d.ContributorID, d.Date, d.CreatedAt, d.UpdatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return model.NewNotFound(model.EntityParticipant, d.ContributorID)
			}
			return fmt.Errorf("insert deposit: %w", err)
		}

		if err := applyAdjustments(ctx, tx, model.CreditAdjustments(d)); err != nil {
			return err
		}

		contributor, err := getParticipant(ctx, tx, d.ContributorID)
		if err != nil {
			return err
		}
		d.Contributor = contributor
		return nil
	})
}

// GetDeposit retrieves a deposit by its ID.
func (r *Repository) GetDeposit(ctx context.Context, id string) (*model.Deposit, error) {
	return getDeposit(ctx, r.pool, id)
}

func getDeposit(ctx context.Context, q querier, id string) (*model.Deposit, error) {
	d, err := scanDeposit(q.QueryRow(ctx, depositSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityDeposit, id)
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

// lockDeposit loads a deposit row and holds its lock until the transaction ends.
func lockDeposit(ctx context.Context, tx pgx.Tx, id string) (*model.Deposit, error) {
	query := `
		SELECT id, amount, contributor_id, date, created_at, updated_at
		FROM deposits
		WHERE id = $1
		FOR UPDATE
	`

	var d model.Deposit
	err := tx.QueryRow(ctx, query, id).Scan(&d.ID, &d.Amount, &d.ContributorID, &d.Date, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityDeposit, id)
		}
		return nil, fmt.Errorf("lock deposit: %w", err)
	}
	return &d, nil
}

// UpdateDeposit replaces amount, contributor and optionally date. When
// amount or contributor change, the old contribution is reversed and the
// new one applied in the same transaction.
func (r *Repository) UpdateDeposit(ctx context.Context, id string, change model.DepositChange) (*model.Deposit, *model.Deposit, error) {
	var updated, previous *model.Deposit
	err := r.withTx(ctx, "update deposit", func(tx pgx.Tx) error {
		old, err := lockDeposit(ctx, tx, id)
		if err != nil {
			return err
		}

		date := old.Date
		if change.Date != nil {
			date = *change.Date
		}

		query := `
			UPDATE deposits
			SET amount = $2, contributor_id = $3, date = $4, updated_at = $5
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, query, id, change.Amount, change.ContributorID, date, time.Now().UTC())
		if err != nil {
			if isForeignKeyViolation(err) {
				return model.NewNotFound(model.EntityParticipant, change.ContributorID)
			}
			return fmt.Errorf("update deposit: %w", err)
		}

		if err := applyAdjustments(ctx, tx, model.DepositAdjustments(old, change)); err != nil {
			return err
		}

		updated, err = getDeposit(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = old
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, previous, nil
}

// DeleteDeposit removes a deposit and debits its contributor.
func (r *Repository) DeleteDeposit(ctx context.Context, id string) (*model.Deposit, error) {
	var removed *model.Deposit
	err := r.withTx(ctx, "delete deposit", func(tx pgx.Tx) error {
		old, err := lockDeposit(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM deposits WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete deposit: %w", err)
		}

		if err := applyAdjustments(ctx, tx, model.DebitAdjustments(old)); err != nil {
			return err
		}
		removed = old
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ListDeposits returns deposits newest first.
func (r *Repository) ListDeposits(ctx context.Context, limit int) ([]*model.Deposit, error) {
	query, args := limitClause(depositSelect+` ORDER BY d.date DESC, d.id DESC`, limit, nil)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	deposits := []*model.Deposit{}
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposits: %w", err)
	}
	return deposits, nil
}

func scanDeposit(row pgx.Row) (*model.Deposit, error) {
	var (
		d     model.Deposit
		name  *string
		total decimal.NullDecimal
	)
	err := row.Scan(
		&d.ID,
		&d.Amount,
		&d.ContributorID,
		&d.Date,
		&d.CreatedAt,
		&d.UpdatedAt,
		&name,
		&total,
	)
	if err != nil {
		return nil, err
	}
	if name != nil {
		d.Contributor = &model.Participant{
			ID:               d.ContributorID,
			Name:             *name,
			TotalContributed: total.Decimal,
		}
	}
	return &d, nil
}
