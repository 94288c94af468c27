package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/strandhvilliam/vimmer-sub007/internal/jobs"
	"github.com/strandhvilliam/vimmer-sub007/internal/jobstore"
	"github.com/strandhvilliam/vimmer-sub007/internal/metrics"
)

// --- Export Endpoints ---

// POST /api/exports/start
// Body: {"domain": "gbg2026"}
//
// Records a pending export job in DynamoDB and dispatches the export Lambda
// asynchronously. Clients poll /api/exports/{id}/results for bundles.
func handleExportStart(w http.ResponseWriter, r *http.Request) {
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
	if lambdaClient == nil {
		httpError(w, http.StatusServiceUnavailable, "exports are not configured")
		return
	}

	ctx := r.Context()
	jobID := jobs.GenerateID("exp-")

	job := &jobstore.ExportJob{
		ID:        jobID,
		Domain:    req.Domain,
		Status:    jobstore.ExportPending,
		CreatedAt: time.Now().Unix(),
	}
	if err := exportJobs.PutExportJob(ctx, req.Domain, job); err != nil {
		httpError(w, http.StatusInternalServerError, "failed to create export job", err.Error())
		return
	}

	if err := invokeExportAsync(ctx, req.Domain, jobID); err != nil {
		exportJobs.SetExportError(ctx, req.Domain, jobID, "failed to dispatch export worker")
		httpError(w, http.StatusInternalServerError, "failed to start export", err.Error())
		return
	}

	metrics.New().
		Dimension("Operation", "ExportStart").
		Count("ExportsStarted").
		Property("domain", req.Domain).
		Flush()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"id": jobID,
	})
}

// GET /api/exports/{id}/results?domain=...
func handleExportRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/exports/"), "/")
	if len(parts) < 2 || parts[1] != "results" {
		httpError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jobID := parts[0]
	if !strings.HasPrefix(jobID, "exp-") {
		jobID = "exp-" + jobID
	}

	domain := r.URL.Query().Get("domain")
	if err := validateDomain(domain); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := exportJobs.GetExportJob(r.Context(), domain, jobID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to look up export job", err.Error())
		return
	}
	// Generic "not found" prevents job ID enumeration across domains.
	if job == nil {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	resp := map[string]interface{}{
		"id":      job.ID,
		"status":  job.Status,
		"bundles": job.Bundles,
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	respondJSON(w, http.StatusOK, resp)
}
