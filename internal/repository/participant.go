package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/groupfund/groupfund/internal/model"
)

const participantColumns = `id, name, total_contributed, created_at, updated_at`

// CreateParticipant inserts a new participant with a zero total.
func (r *Repository) CreateParticipant(ctx context.Context, p *model.Participant) error {
	query := `
		INSERT INTO participants (id, name, total_contributed, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4)
	`

	if _, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by its ID.
func (r *Repository) GetParticipant(ctx context.Context, id string) (*model.Participant, error) {
	return getParticipant(ctx, r.pool, id)
}

func getParticipant(ctx context.Context, q querier, id string) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	p, err := scanParticipant(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityParticipant, id)
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns all participants ordered by name.
func (r *Repository) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []*model.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return participants, nil
}

// ContributionDrift compares cached totals against the deposit sums.
func (r *Repository) ContributionDrift(ctx context.Context) ([]model.Drift, error) {
	query := `
		SELECT p.id, p.name, p.total_contributed, COALESCE(SUM(d.amount), 0)
		FROM participants p
		LEFT JOIN deposits d ON d.contributor_id = p.id
		GROUP BY p.id, p.name, p.total_contributed
		HAVING p.total_contributed <> COALESCE(SUM(d.amount), 0)
		ORDER BY p.name, p.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute contribution drift: %w", err)
	}
	defer rows.Close()

	var drift []model.Drift
	for rows.Next() {
		var d model.Drift
		if err := rows.Scan(&d.ParticipantID, &d.Name, &d.Cached, &d.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan drift: %w", err)
		}
		drift = append(drift, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drift: %w", err)
	}
	return drift, nil
}

// applyAdjustments changes running totals in place. A missing participant
// aborts the caller's transaction with a not-found error.
func applyAdjustments(ctx context.Context, q querier, adjustments []model.Adjustment) error {
	query := `
		UPDATE participants
		SET total_contributed = total_contributed + $2, updated_at = NOW()
		WHERE id = $1
	`

	for _, adj := range adjustments {
		result, err := q.Exec(ctx, query, adj.ParticipantID, adj.Delta)
		if err != nil {
			return fmt.Errorf("failed to adjust total for %s: %w", adj.ParticipantID, err)
		}
		if result.RowsAffected() == 0 {
			return model.NewNotFound(model.EntityParticipant, adj.ParticipantID)
		}
	}
	return nil
}

func scanParticipant(row pgx.Row) (*model.Participant, error) {
	var p model.Participant
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.TotalContributed,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return &p, err
}
