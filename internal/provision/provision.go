// Package provision prepares a participant's upload batch: one deterministic
// submission key and one presigned write grant per photo the participant's
// competition class requires. Provisioning mints capabilities only — it
// creates no storage objects and commits no records — so a retried or
// repeated call is harmless and yields the same key set with fresh grants.
package provision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/strandhvilliam/vimmer-sub007/internal/grant"
	"github.com/strandhvilliam/vimmer-sub007/internal/subkey"
)

// submissionContentType is the content type every write grant is bound to;
// submissions are JPEG by the key contract.
const submissionContentType = "image/jpeg"

// ClassLookup resolves how many photos a competition class requires.
// Backed by the Postgres class repository in production.
type ClassLookup interface {
	RequiredPhotoCount(ctx context.Context, classID string) (int, error)
}

// GrantBatchError reports a provisioning batch in which one or more grants
// failed to sign. The batch is all-or-nothing: callers never see a partial
// array, because a client performing a multi-file upload needs a consistent
// set. Err holds the first failure.
type GrantBatchError struct {
	Domain         string
	ParticipantRef string
	Failed         int
	Total          int
	Err            error
}

func (e *GrantBatchError) Error() string {
	return fmt.Sprintf("provisioning %s/%s: %d of %d grants failed: %v",
		e.Domain, e.ParticipantRef, e.Failed, e.Total, e.Err)
}

func (e *GrantBatchError) Unwrap() error { return e.Err }

// ProvisionedUpload pairs a submission key with the write grant that allows
// uploading to it.
type ProvisionedUpload struct {
	Key       subkey.SubmissionKey `json:"key"`
	StoreKey  string               `json:"storeKey"`
	UploadURL string               `json:"uploadUrl"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// Service issues upload batches against the submission bucket.
type Service struct {
	presigner grant.PutPresigner
	bucket    string
	classes   ClassLookup
	ttl       time.Duration
}

// New creates a provisioning Service. ttl 0 uses grant.DefaultUploadTTL.
func New(presigner grant.PutPresigner, submissionBucket string, classes ClassLookup, ttl time.Duration) *Service {
	return &Service{presigner: presigner, bucket: submissionBucket, classes: classes, ttl: ttl}
}

// Provision determines the participant's full expected key set from the
// class's required photo count and mints one write grant per key. Grants are
// signed concurrently and awaited jointly; results come back in ascending
// order index. Any signing failure aborts the batch with GrantBatchError.
//
// Keys are deterministic, so calling Provision again before uploads complete
// returns the same key set with new, independently valid grants; earlier
// grants stay usable until their own TTL expires.
func (s *Service) Provision(ctx context.Context, domain, participantRef, classID string) ([]ProvisionedUpload, error) {
	if domain == "" || participantRef == "" {
		return nil, fmt.Errorf("domain and participantRef are required")
	}

	count, err := s.classes.RequiredPhotoCount(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("look up class %s: %w", classID, err)
	}
	if count <= 0 {
		return nil, fmt.Errorf("class %s requires no photos", classID)
	}

	uploads := make([]ProvisionedUpload, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(orderIndex int) {
			defer wg.Done()
			key := subkey.Format(domain, participantRef, orderIndex)
			g, err := grant.IssueWrite(ctx, s.presigner, s.bucket, key, submissionContentType, s.ttl)
			if err != nil {
				errs[orderIndex] = err
				return
			}
			parsed, err := subkey.Parse(key)
			if err != nil {
				errs[orderIndex] = err
				return
			}
			uploads[orderIndex] = ProvisionedUpload{
				Key:       parsed,
				StoreKey:  key,
				UploadURL: g.URL,
				ExpiresAt: g.ExpiresAt,
			}
		}(i)
	}
	wg.Wait()

	failed := 0
	var first error
	for _, err := range errs {
		if err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed > 0 {
		log.Error().Err(first).
			Str("domain", domain).
			Str("participantRef", participantRef).
			Int("failed", failed).
			Int("total", count).
			Msg("Provisioning batch failed")
		return nil, &GrantBatchError{
			Domain:         domain,
			ParticipantRef: participantRef,
			Failed:         failed,
			Total:          count,
			Err:            first,
		}
	}

	log.Info().
		Str("domain", domain).
		Str("participantRef", participantRef).
		Str("classId", classID).
		Int("grants", count).
		Msg("Upload batch provisioned")
	return uploads, nil
}

// Keys returns the deterministic key set for a participant without minting
// grants. Used when ensuring submission slot records exist.
func Keys(domain, participantRef string, count int) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = subkey.Format(domain, participantRef, i)
	}
	return keys
}
