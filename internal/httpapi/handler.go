// Package httpapi implements the HTTP handlers for the job posting service.
//
// All routes expect an X-Tenant-ID header forwarded by the Gateway; mutating
// routes additionally carry X-User-ID for audit fields.
//
// Routes:
//
//	POST   /api/v1/jobs              → create job (DRAFT)
//	GET    /api/v1/jobs              → list jobs (paged, optional status)
//	POST   /api/v1/jobs/search       → search by criteria (paged)
//	GET    /api/v1/jobs/count        → count by status / expired count
//	GET    /api/v1/jobs/{id}         → get job (increments view count)
//	PUT    /api/v1/jobs/{id}         → partial update
//	POST   /api/v1/jobs/{id}/approve → approve (X-User-ID is the approver)
//	POST   /api/v1/jobs/{id}/publish → publish
//	POST   /api/v1/jobs/{id}/close   → close
//	POST   /api/v1/jobs/{id}/apply   → record an application
//	DELETE /api/v1/jobs/{id}         → delete (not allowed while PUBLISHED)
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// Handler holds shared dependencies.
type Handler struct {
	svc *job.Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *job.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/jobs", h.createJob)
	mux.HandleFunc("GET /api/v1/jobs", h.listJobs)
	mux.HandleFunc("POST /api/v1/jobs/search", h.searchJobs)
	mux.HandleFunc("GET /api/v1/jobs/count", h.countJobs)
	mux.HandleFunc("GET /api/v1/jobs/{id}", h.getJob)
	mux.HandleFunc("PUT /api/v1/jobs/{id}", h.updateJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/approve", h.approveJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/publish", h.publishJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/close", h.closeJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/apply", h.recordApplication)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", h.deleteJob)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	var req job.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	j, err := h.svc.Create(r.Context(), tenantID, r.Header.Get("X-User-ID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	j, err := h.svc.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	var status job.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := job.ParseStatus(raw)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}

	result, err := h.svc.List(r.Context(), tenantID, status, pageParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchJobs(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	var criteria job.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	// The tenant boundary comes from the gateway header, never the body.
	criteria.TenantID = tenantID

	result, err := h.svc.Search(r.Context(), criteria, pageParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) countJobs(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("expired") == "true" {
		n, err := h.svc.CountExpired(r.Context(), tenantID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"count": n})
		return
	}

	status, err := job.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, err := h.svc.CountByStatus(r.Context(), tenantID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	var req job.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	j, err := h.svc.Update(r.Context(), tenantID, r.PathValue("id"), r.Header.Get("X-User-ID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) approveJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	approverID := r.Header.Get("X-User-ID")
	if approverID == "" {
		jsonError(w, "missing X-User-ID header", http.StatusBadRequest)
		return
	}

	j, err := h.svc.Approve(r.Context(), tenantID, r.PathValue("id"), approverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) publishJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	j, err := h.svc.Publish(r.Context(), tenantID, r.PathValue("id"), r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) closeJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	j, err := h.svc.Close(r.Context(), tenantID, r.PathValue("id"), r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) recordApplication(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	j, err := h.svc.RecordApplication(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), tenantID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID := r.Header.Get("X-Tenant-ID")
	if tenantID == "" {
		jsonError(w, "missing X-Tenant-ID header", http.StatusBadRequest)
		return "", false
	}
	return tenantID, true
}

func pageParams(r *http.Request) job.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return job.Page{Number: number, Size: size}
}

// writeError maps domain errors onto HTTP status codes. Unexpected errors are
// logged server-side and surface as a generic 500 without internal detail.
func writeError(w http.ResponseWriter, err error) {
	var validation *job.ValidationError
	var invalidState *job.InvalidStateError
	switch {
	case errors.Is(err, job.ErrNotFound):
		jsonError(w, "job not found", http.StatusNotFound)
	case errors.As(err, &invalidState):
		jsonError(w, invalidState.Error(), http.StatusConflict)
	case errors.As(err, &validation):
		jsonError(w, validation.Error(), http.StatusBadRequest)
	case errors.Is(err, job.ErrVersionConflict):
		jsonError(w, "job was modified concurrently, retry", http.StatusConflict)
	default:
		slog.Error("request failed", "err", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
