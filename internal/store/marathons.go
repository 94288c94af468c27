package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// MarathonRepository persists marathons keyed by tenant domain.
type MarathonRepository struct {
	db *sql.DB
}

// Create inserts a marathon. The ID is generated when empty.
func (r *MarathonRepository) Create(ctx context.Context, m *Marathon) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO marathons (id, domain, name, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Domain, m.Name, m.StartsAt, m.EndsAt)
	if err != nil {
		return fmt.Errorf("insert marathon %s: %w", m.Domain, err)
	}
	return nil
}

// GetByDomain loads the marathon for a tenant domain.
func (r *MarathonRepository) GetByDomain(ctx context.Context, domain string) (*Marathon, error) {
	m := &Marathon{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, domain, name, logo_key, terms_key, starts_at, ends_at, created_at
		FROM marathons WHERE domain = $1`, domain).
		Scan(&m.ID, &m.Domain, &m.Name, &m.LogoKey, &m.TermsKey, &m.StartsAt, &m.EndsAt, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("marathon %s: %w", domain, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select marathon %s: %w", domain, err)
	}
	return m, nil
}

// SetLogoKey stores a freshly rotated logo key for the domain.
func (r *MarathonRepository) SetLogoKey(ctx context.Context, domain, logoKey string) error {
	return r.setKey(ctx, domain, "logo_key", logoKey)
}

// SetTermsKey stores the terms document key for the domain.
func (r *MarathonRepository) SetTermsKey(ctx context.Context, domain, termsKey string) error {
	return r.setKey(ctx, domain, "terms_key", termsKey)
}

func (r *MarathonRepository) setKey(ctx context.Context, domain, column, value string) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE marathons SET %s = $1 WHERE domain = $2`, column), value, domain)
	if err != nil {
		return fmt.Errorf("update marathon %s: %w", domain, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("marathon %s: %w", domain, ErrNotFound)
	}
	return nil
}
