package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/strandhvilliam/vimmer-sub007/internal/cleanup"
	"github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/metrics"
	"github.com/strandhvilliam/vimmer-sub007/internal/provision"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// --- Provision ---

// POST /api/uploads/provision
// Body: {"domain": "gbg2026", "participantRef": "42"}
//
// Looks up the participant's competition class, derives the full deterministic
// key set, and returns one presigned PUT grant per expected photo. Re-calling
// is safe: same keys, fresh grants.
func handleProvision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain         string `json:"domain"`
		ParticipantRef string `json:"participantRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateParticipantRef(req.ParticipantRef); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	ref := strings.TrimSpace(req.ParticipantRef)

	ctx := r.Context()
	start := time.Now()

	participant, err := pg.Participants.GetByReference(ctx, req.Domain, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "participant not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to look up participant", err.Error())
		return
	}

	uploads, err := provisionSvc.Provision(ctx, req.Domain, ref, participant.ClassID)
	if err != nil {
		var batchErr *provision.GrantBatchError
		if errors.As(err, &batchErr) {
			httpError(w, http.StatusBadGateway, "failed to provision upload batch", err.Error())
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to provision upload batch", err.Error())
		return
	}

	// Slot records are an idempotent upsert, separate from grant minting, so
	// a presign failure never leaves partial rows behind.
	keys := make([]string, len(uploads))
	for i, u := range uploads {
		keys[i] = u.StoreKey
	}
	if err := pg.Submissions.EnsureSlots(ctx, participant.ID, req.Domain, keys); err != nil {
		httpError(w, http.StatusInternalServerError, "failed to record upload slots", err.Error())
		return
	}

	metrics.New().
		Dimension("Operation", "Provision").
		Count("ProvisionBatches").
		Metric("GrantsIssued", float64(len(uploads)), metrics.UnitCount).
		Duration("ProvisionLatency", time.Since(start)).
		Property("domain", req.Domain).
		Flush()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uploads": uploads,
	})
}

// --- Confirm ---

// POST /api/uploads/confirm
// Body: {"domain": "gbg2026", "key": "gbg2026/0042/01/0042_01.jpg"}
//
// Marks the slot uploaded and enqueues variant generation. Confirming the
// same key again re-enqueues; variant generation is idempotent.
func handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain string `json:"domain"`
		Key    string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateSubmissionKey(req.Domain, req.Key); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	if err := pg.Submissions.MarkUploaded(ctx, req.Key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "submission slot not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to confirm upload", err.Error())
		return
	}

	if err := variantQueue.EnqueueVariant(ctx, req.Domain, req.Key); err != nil {
		// The slot is already marked uploaded; vimmerctl reprocess can
		// re-enqueue, so report the failure without rolling back.
		httpError(w, http.StatusInternalServerError, "failed to queue variant generation", err.Error())
		return
	}

	if err := emitter.Emit(ctx, events.TypeSubmissionUploaded, events.SubmissionUploaded{
		Domain: req.Domain,
		Key:    req.Key,
	}); err != nil {
		log.Warn().Err(err).Str("key", req.Key).Msg("Failed to emit upload event")
	}

	metrics.New().
		Dimension("Operation", "Confirm").
		Count("UploadsConfirmed").
		Property("domain", req.Domain).
		Flush()

	respondJSON(w, http.StatusOK, map[string]string{
		"key":    req.Key,
		"status": store.StatusUploaded,
	})
}

// --- Reset ---

// POST /api/uploads/reset
// Body: {"domain": "gbg2026", "participantRef": "42"}
//
// Deletes the participant's originals and variants from all buckets and
// returns the slots to pending. Object deletion is best-effort: individual
// failures are logged and skipped, and the response reports success.
func handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain         string `json:"domain"`
		ParticipantRef string `json:"participantRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateParticipantRef(req.ParticipantRef); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	ref := strings.TrimSpace(req.ParticipantRef)

	ctx := r.Context()

	participant, err := pg.Participants.GetByReference(ctx, req.Domain, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "participant not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to look up participant", err.Error())
		return
	}

	subs, err := pg.Submissions.ListByParticipant(ctx, participant.ID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to list submissions", err.Error())
		return
	}

	items := make([]cleanup.Item, 0, len(subs))
	keys := make([]string, 0, len(subs))
	for _, sub := range subs {
		items = append(items, cleanup.Item{
			SubmissionKey: sub.Key,
			ThumbnailKey:  sub.ThumbnailKey.String,
			PreviewKey:    sub.PreviewKey.String,
		})
		keys = append(keys, sub.Key)
	}

	cleanupSvc.ResetUploads(ctx, items)

	if len(keys) > 0 {
		if err := pg.Submissions.ResetByKeys(ctx, keys); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to reset submission slots", err.Error())
			return
		}
	}

	metrics.New().
		Dimension("Operation", "Reset").
		Count("BatchesReset").
		Metric("SlotsReset", float64(len(keys)), metrics.UnitCount).
		Property("domain", req.Domain).
		Flush()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reset": len(keys),
	})
}
