package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/groupfund/groupfund/internal/model"
)

const participantColumns = `id, name, total_contributed_minor, created_at, updated_at`

// CreateParticipant inserts a new participant with a zero total.
func (s *Store) CreateParticipant(ctx context.Context, p *model.Participant) error {
	query := `
		INSERT INTO participants (id, name, total_contributed_minor, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, p.ID, p.Name, toMicros(p.CreatedAt), toMicros(p.UpdatedAt)); err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by its ID.
func (s *Store) GetParticipant(ctx context.Context, id string) (*model.Participant, error) {
	return getParticipant(ctx, s.db, id)
}

func getParticipant(ctx context.Context, q querier, id string) (*model.Participant, error) {
	row := q.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, id)
	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound(model.EntityParticipant, id)
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns all participants ordered by name.
func (s *Store) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY name, id`)
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
func (s *Store) ContributionDrift(ctx context.Context) ([]model.Drift, error) {
	query := `
		SELECT p.id, p.name, p.total_contributed_minor, COALESCE(SUM(d.amount_minor), 0) AS actual
		FROM participants p
		LEFT JOIN deposits d ON d.contributor_id = p.id
		GROUP BY p.id, p.name, p.total_contributed_minor
		HAVING p.total_contributed_minor <> actual
		ORDER BY p.name, p.id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute contribution drift: %w", err)
	}
	defer rows.Close()

	var drift []model.Drift
	for rows.Next() {
		var (
			d              model.Drift
			cached, actual int64
		)
		if err := rows.Scan(&d.ParticipantID, &d.Name, &cached, &actual); err != nil {
			return nil, fmt.Errorf("failed to scan drift: %w", err)
		}
		d.Cached = model.FromMinor(cached)
		d.Actual = model.FromMinor(actual)
		drift = append(drift, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drift: %w", err)
	}
	return drift, nil
}

// applyAdjustments changes running totals in place, in minor units.
func applyAdjustments(ctx context.Context, q querier, adjustments []model.Adjustment) error {
	query := `
		UPDATE participants
		SET total_contributed_minor = total_contributed_minor + ?, updated_at = ?
		WHERE id = ?
	`
	now := toMicros(time.Now())

	for _, adj := range adjustments {
		result, err := q.ExecContext(ctx, query, model.ToMinor(adj.Delta), now, adj.ParticipantID)
		if err != nil {
			return fmt.Errorf("failed to adjust total for %s: %w", adj.ParticipantID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return model.NewNotFound(model.EntityParticipant, adj.ParticipantID)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*model.Participant, error) {
	var (
		p                    model.Participant
		total                int64
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &total, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.TotalContributed = model.FromMinor(total)
	p.CreatedAt = fromMicros(createdAt)
	p.UpdatedAt = fromMicros(updatedAt)
	return &p, nil
}
