package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/strandhvilliam/vimmer-sub007/internal/store/migrations"
)

// Postgres bundles the repositories over one connection pool.
type Postgres struct {
	db           *sql.DB
	Marathons    *MarathonRepository
	Classes      *ClassRepository
	Participants *ParticipantRepository
	Submissions  *SubmissionRepository
}

// Open connects to Postgres with the pgx stdlib driver and wires the
// repositories. It does not run migrations; call RunMigrations explicitly
// (vimmerctl does, the Lambdas do not).
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &Postgres{
		db:           db,
		Marathons:    &MarathonRepository{db: db},
		Classes:      &ClassRepository{db: db},
		Participants: &ParticipantRepository{db: db},
		Submissions:  &SubmissionRepository{db: db},
	}, nil
}

// Conn exposes the underlying pool.
func (p *Postgres) Conn() *sql.DB { return p.db }

// Close releases the pool.
func (p *Postgres) Close() error { return p.db.Close() }

// RunMigrations applies the embedded goose migrations.
func (p *Postgres) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, p.db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
