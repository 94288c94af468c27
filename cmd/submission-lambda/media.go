package main

import (
	"errors"
	"net/http"

	"github.com/strandhvilliam/vimmer-sub007/internal/grant"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
	"github.com/strandhvilliam/vimmer-sub007/internal/variant"
)

// --- Media Endpoints ---

// GET /api/media/display-url?domain=...&key=gbg2026/0042/01/0042_01.jpg
//
// Resolves the preferred display URL for a submission. Thumbnails win; a
// submission with no original resolves to null even if a stale variant
// exists; previews and originals are fallbacks. displayUrl is null when
// nothing displayable exists.
func handleDisplayURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	domain := r.URL.Query().Get("domain")
	key := r.URL.Query().Get("key")
	if err := validateDomain(domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateSubmissionKey(domain, key); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := pg.Submissions.GetByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "submission not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to look up submission", err.Error())
		return
	}

	// A pending slot has no uploaded original yet.
	originalKey := ""
	if sub.Status != store.StatusPending {
		originalKey = sub.Key
	}

	url := variant.ResolveDisplayURL(variant.Submission{
		Key:          originalKey,
		ThumbnailKey: sub.ThumbnailKey.String,
		PreviewKey:   sub.PreviewKey.String,
	}, storageCfg.ThumbnailBaseURL, storageCfg.SubmissionBaseURL, storageCfg.PreviewBaseURL)

	resp := map[string]interface{}{
		"key":        key,
		"displayUrl": nil,
	}
	if url != "" {
		resp["displayUrl"] = url
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /api/media/download-url?domain=...&key=gbg2026/0042/01/0042_01.jpg
// Returns a presigned GET URL for the original submission.
func handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	domain := r.URL.Query().Get("domain")
	key := r.URL.Query().Get("key")
	if err := validateDomain(domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateSubmissionKey(domain, key); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := grant.IssueRead(r.Context(), presigner, storageCfg.SubmissionBucket, key, grant.DefaultDownloadTTL)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to generate download URL", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"url":       g.URL,
		"expiresAt": g.ExpiresAt,
	})
}
