package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/groupfund/groupfund/internal/model"
)

const depositSelect = `
	SELECT d.id, d.amount_minor, d.contributor_id, d.date, d.created_at, d.updated_at,
	       p.name, p.total_contributed_minor
	FROM deposits d
	LEFT JOIN participants p ON p.id = d.contributor_id
`

// CreateDeposit inserts d and credits the contributor in one transaction.
func (s *Store) CreateDeposit(ctx context.Context, d *model.Deposit) error {
	return s.withTx(ctx, "create deposit", func(tx *sql.Tx) error {
		query := `
			INSERT INTO deposits (id, amount_minor, contributor_id, date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			d.ID, model.ToMinor(d.Amount), d.ContributorID,
			toMicros(d.Date), toMicros(d.CreatedAt), toMicros(d.UpdatedAt),
		)
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
func (s *Store) GetDeposit(ctx context.Context, id string) (*model.Deposit, error) {
	return getDeposit(ctx, s.db, id)
}

func getDeposit(ctx context.Context, q querier, id string) (*model.Deposit, error) {
	d, err := scanDeposit(q.QueryRowContext(ctx, depositSelect+` WHERE d.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityDeposit, id)
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

// UpdateDeposit replaces amount, contributor and optionally date, moving the
// contribution between totals when amount or contributor change.
func (s *Store) UpdateDeposit(ctx context.Context, id string, change model.DepositChange) (*model.Deposit, *model.Deposit, error) {
	var updated, previous *model.Deposit
	err := s.withTx(ctx, "update deposit", func(tx *sql.Tx) error {
		old, err := getDeposit(ctx, tx, id)
		if err != nil {
			return err
		}

		date := old.Date
		if change.Date != nil {
			date = *change.Date
		}

		query := `
			UPDATE deposits
			SET amount_minor = ?, contributor_id = ?, date = ?, updated_at = ?
			WHERE id = ?
		`
		_, err = tx.ExecContext(ctx, query,
			model.ToMinor(change.Amount), change.ContributorID, toMicros(date), toMicros(time.Now()), id,
		)
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
func (s *Store) DeleteDeposit(ctx context.Context, id string) (*model.Deposit, error) {
	var removed *model.Deposit
	err := s.withTx(ctx, "delete deposit", func(tx *sql.Tx) error {
		old, err := getDeposit(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM deposits WHERE id = ?`, id); err != nil {
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
func (s *Store) ListDeposits(ctx context.Context, limit int) ([]*model.Deposit, error) {
	query, args := limitClause(depositSelect+` ORDER BY d.date DESC, d.id DESC`, limit, nil)

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func scanDeposit(row scanner) (*model.Deposit, error) {
	var (
		d                          model.Deposit
		amount                     int64
		date, createdAt, updatedAt int64
		name                       sql.NullString
		total                      sql.NullInt64
	)
	err := row.Scan(&d.ID, &amount, &d.ContributorID, &date, &createdAt, &updatedAt, &name, &total)
	if err != nil {
		return nil, err
	}
	d.Amount = model.FromMinor(amount)
	d.Date = fromMicros(date)
	d.CreatedAt = fromMicros(createdAt)
	d.UpdatedAt = fromMicros(updatedAt)
	if name.Valid {
		d.Contributor = &model.Participant{
			ID:               d.ContributorID,
			Name:             name.String,
			TotalContributed: model.FromMinor(total.Int64),
		}
	}
	return &d, nil
}
