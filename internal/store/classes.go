package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ClassRepository persists competition classes. It also serves as the
// provisioning service's class lookup.
type ClassRepository struct {
	db *sql.DB
}

// Create inserts a competition class. The ID is generated when empty.
func (r *ClassRepository) Create(ctx context.Context, c *CompetitionClass) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO competition_classes (id, domain, name, photo_count)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Domain, c.Name, c.PhotoCount)
	if err != nil {
		return fmt.Errorf("insert class %s: %w", c.Name, err)
	}
	return nil
}

// GetByID loads a class.
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*CompetitionClass, error) {
	c := &CompetitionClass{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, domain, name, photo_count
		FROM competition_classes WHERE id = $1`, id).
		Scan(&c.ID, &c.Domain, &c.Name, &c.PhotoCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select class %s: %w", id, err)
	}
	return c, nil
}

// RequiredPhotoCount implements provision.ClassLookup.
func (r *ClassRepository) RequiredPhotoCount(ctx context.Context, classID string) (int, error) {
	c, err := r.GetByID(ctx, classID)
	if err != nil {
		return 0, err
	}
	return c.PhotoCount, nil
}

// ListByDomain returns all classes configured for a marathon.
func (r *ClassRepository) ListByDomain(ctx context.Context, domain string) ([]*CompetitionClass, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, domain, name, photo_count
		FROM competition_classes WHERE domain = $1 ORDER BY name`, domain)
	if err != nil {
		return nil, fmt.Errorf("select classes for %s: %w", domain, err)
	}
	defer rows.Close()

	var result []*CompetitionClass
	for rows.Next() {
		c := &CompetitionClass{}
		if err := rows.Scan(&c.ID, &c.Domain, &c.Name, &c.PhotoCount); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
