package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strandhvilliam/vimmer-sub007/internal/grant"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
	"github.com/strandhvilliam/vimmer-sub007/internal/subkey"
)

// GET /api/settings?domain=...
// Returns the marathon's current logo/terms keys plus short-lived read URLs.
func handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	domain := r.URL.Query().Get("domain")
	if err := validateDomain(domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	marathon, err := pg.Marathons.GetByDomain(r.Context(), domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "marathon not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to look up marathon", err.Error())
		return
	}

	resp := map[string]interface{}{
		"domain":   domain,
		"name":     marathon.Name,
		"logoKey":  nil,
		"logoUrl":  nil,
		"termsKey": nil,
		"termsUrl": nil,
	}
	if marathon.LogoKey.Valid {
		resp["logoKey"] = marathon.LogoKey.String
		objectKey := subkey.LogoObjectKey(marathon.LogoKey.String)
		if g, err := grant.IssueRead(r.Context(), presigner, settingsBucket, objectKey, grant.SettingsUploadTTL); err == nil {
			resp["logoUrl"] = g.URL
		}
	}
	if marathon.TermsKey.Valid {
		resp["termsKey"] = marathon.TermsKey.String
		if g, err := grant.IssueRead(r.Context(), presigner, settingsBucket, marathon.TermsKey.String, grant.SettingsUploadTTL); err == nil {
			resp["termsUrl"] = g.URL
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/settings/logo/upload
// Body: {"domain": "gbg2026", "contentType": "image/png"}
//
// Bumps the logo version from the marathon's current key and returns a
// presigned PUT for the underlying object. The versioned key is committed
// on confirm, after the upload succeeds.
func handleLogoUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain      string `json:"domain"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ContentType != "image/png" && req.ContentType != "image/jpeg" && req.ContentType != "image/svg+xml" {
		httpError(w, http.StatusBadRequest, "unsupported logo content type")
		return
	}

	marathon, err := pg.Marathons.GetByDomain(r.Context(), req.Domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "marathon not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to look up marathon", err.Error())
		return
	}

	logoKey := subkey.NextLogoKey(req.Domain, marathon.LogoKey.String)
	objectKey := subkey.LogoObjectKey(logoKey)

	g, err := grant.IssueWrite(r.Context(), presigner, settingsBucket, objectKey, req.ContentType, grant.SettingsUploadTTL)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to generate upload URL", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl": g.URL,
		"logoKey":   logoKey,
		"expiresAt": g.ExpiresAt,
	})
}

// POST /api/settings/logo/confirm
// Body: {"domain": "gbg2026", "logoKey": "gbg2026/logo?v=3"}
func handleLogoConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain  string `json:"domain"`
		LogoKey string `json:"logoKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if subkey.LogoObjectKey(req.LogoKey) != req.Domain+"/logo" {
		httpError(w, http.StatusBadRequest, "logoKey does not belong to domain")
		return
	}

	if err := pg.Marathons.SetLogoKey(r.Context(), req.Domain, req.LogoKey); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "marathon not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to record logo", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"logoKey": req.LogoKey,
	})
}

// POST /api/settings/terms/upload
// Body: {"domain": "gbg2026"}
func handleTermsUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	termsKey := subkey.TermsKey(req.Domain)
	g, err := grant.IssueWrite(r.Context(), presigner, settingsBucket, termsKey, "text/plain", grant.SettingsUploadTTL)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to generate upload URL", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl": g.URL,
		"termsKey":  termsKey,
		"expiresAt": g.ExpiresAt,
	})
}

// POST /api/settings/terms/confirm
// Body: {"domain": "gbg2026"}
func handleTermsConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDomain(req.Domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	termsKey := subkey.TermsKey(req.Domain)
	if err := pg.Marathons.SetTermsKey(r.Context(), req.Domain, termsKey); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "marathon not found")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to record terms", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"termsKey": termsKey,
	})
}
