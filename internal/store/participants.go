package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ParticipantRepository persists registered entrants.
type ParticipantRepository struct {
	db *sql.DB
}

// Create inserts a participant. The ID is generated when empty.
func (r *ParticipantRepository) Create(ctx context.Context, p *Participant) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (id, domain, reference, class_id)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.Domain, p.Reference, p.ClassID)
	if err != nil {
		return fmt.Errorf("insert participant %s/%s: %w", p.Domain, p.Reference, err)
	}
	return nil
}

// GetByReference loads a participant by domain and reference code.
func (r *ParticipantRepository) GetByReference(ctx context.Context, domain, reference string) (*Participant, error) {
	p := &Participant{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, domain, reference, class_id, created_at
		FROM participants WHERE domain = $1 AND reference = $2`, domain, reference).
		Scan(&p.ID, &p.Domain, &p.Reference, &p.ClassID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %s/%s: %w", domain, reference, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select participant %s/%s: %w", domain, reference, err)
	}
	return p, nil
}
