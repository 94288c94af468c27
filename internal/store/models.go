// Package store persists the platform's durable state in PostgreSQL:
// marathons (one per tenant domain), competition classes, participants, and
// submissions. Repositories follow a plain database/sql style over the pgx
// stdlib driver; schema management is goose with embedded migrations.
package store

import (
	"database/sql"
	"time"
)

// Submission statuses. A slot is created pending when provisioned, becomes
// uploaded when the client confirms its PUT, and processed once variants are
// generated.
const (
	StatusPending   = "pending"
	StatusUploaded  = "uploaded"
	StatusProcessed = "processed"
)

// Marathon is one tenant: a marathon event isolated under its own domain.
type Marathon struct {
	ID        string
	Domain    string
	Name      string
	LogoKey   sql.NullString
	TermsKey  sql.NullString
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}

// CompetitionClass defines how many photos a participant must submit.
type CompetitionClass struct {
	ID         string
	Domain     string
	Name       string
	PhotoCount int
}

// Participant is a registered entrant identified within a domain by a short
// reference code.
type Participant struct {
	ID        string
	Domain    string
	Reference string
	ClassID   string
	CreatedAt time.Time
}

// Submission is one photo slot for a participant. Key is the canonical
// original storage key; ThumbnailKey and PreviewKey are set by the variant
// worker after out-of-band processing. Capture metadata comes from EXIF and
// backs staff verification of in-window shooting.
type Submission struct {
	ID            string
	ParticipantID string
	Domain        string
	OrderIndex    int
	Key           string
	ThumbnailKey  sql.NullString
	PreviewKey    sql.NullString
	Status        string
	CapturedAt    sql.NullTime
	CameraModel   sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExportFile pairs a submission key with its participant's class name, used
// to lay out export archives by class.
type ExportFile struct {
	Key       string
	ClassName string
}
