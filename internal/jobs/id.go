// Package jobs provides shared helpers for asynchronous job lifecycle
// operations: ID generation and the persist-an-error pattern used by the
// export worker.
package jobs

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// GenerateID creates a new cryptographically random job ID with the given prefix.
// The prefix should include a trailing dash, e.g. "export-".
func GenerateID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msgf("Failed to generate random %s job ID", prefix)
	}
	return prefix + hex.EncodeToString(b)
}

// ErrorWriter is a function that persists a job error to the backing store.
type ErrorWriter func(ctx context.Context, domain, jobID, errMsg string) error

// SetJobError logs the error and delegates persistence to the provided writer.
func SetJobError(ctx context.Context, domain, jobID, msg string, write ErrorWriter) error {
	log.Error().
		Str("job", jobID).
		Str("domain", domain).
		Str("error", msg).
		Msg("Job failed")
	return write(ctx, domain, jobID, msg)
}
