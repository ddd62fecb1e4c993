// Package board implements the HTTP handlers for the job board.
//
// Routes:
//
//	POST /auth/register           → create an account
//	POST /auth/login              → issue a session token
//	GET  /jobs                    → list jobs (type, location, q filters)
//	POST /jobs                    → create a job (employer)
//	POST /jobs/bulk               → tab-separated bulk import (admin)
//	POST /jobs/import             → scraped-records import (admin)
//	GET  /jobs/{id}               → job detail
//	POST /jobs/{id}/apply         → apply to a job (candidate)
package board

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcanavci/lawjobs/internal/auth"
	"github.com/mcanavci/lawjobs/internal/ingest"
	"github.com/mcanavci/lawjobs/internal/model"
	"github.com/mcanavci/lawjobs/internal/query"
	"github.com/mcanavci/lawjobs/internal/store"
)

// Handler holds shared dependencies.
type Handler struct {
	store    store.Store
	pipeline *ingest.Pipeline
	tokens   *auth.Manager
	cache    *listCache
}

// NewHandler returns a configured Handler. rdb may be nil to disable the
// listing cache.
func NewHandler(st store.Store, pipeline *ingest.Pipeline, tokens *auth.Manager, rdb *redis.Client) *Handler {
	return &Handler{
		store:    st,
		pipeline: pipeline,
		tokens:   tokens,
		cache:    newListCache(rdb),
	}
}

// RegisterRoutes mounts all board routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobPath)
}

// ── Route dispatch ────────────────────────────────────────────────────────

// handleJobs handles GET and POST /jobs.
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobPath handles /jobs/bulk, /jobs/import, /jobs/{id} and
// /jobs/{id}/apply.
func (h *Handler) handleJobPath(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && parts[1] == "bulk":
		h.bulkImport(w, r)
	case len(parts) == 2 && parts[1] == "import":
		h.scrapeImport(w, r)
	case len(parts) == 2:
		h.getJob(w, r, parts[1])
	case len(parts) == 3 && parts[2] == "apply":
		h.applyToJob(w, r, parts[1])
	default:
		jsonError(w, "not found", http.StatusNotFound)
	}
}

// requireRole resolves the caller and checks their role. Writes the error
// response itself and returns nil when the request must not proceed.
func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, role model.Role) *auth.Claims {
	claims, err := h.tokens.FromRequest(r)
	if err != nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return nil
	}
	if claims.Role != role {
		jsonError(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return claims
}

// ── Listing and detail ────────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := query.Filter{
		Type:     params.Get("type"),
		Location: params.Get("location"),
		Q:        params.Get("q"),
	}

	if jobs, ok := h.cache.get(r.Context(), filter); ok {
		jsonOK(w, map[string]any{"jobs": jobs})
		return
	}

	all, err := h.store.ListJobs(r.Context())
	if err != nil {
		log.Printf("[board] listJobs store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	jobs := query.Apply(all, filter)
	h.cache.set(r.Context(), filter, jobs)
	jsonOK(w, map[string]any{"jobs": jobs})
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	job, err := h.store.FindJobByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[board] getJob store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, job)
}

// ── Ingestion endpoints ───────────────────────────────────────────────────

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	claims := h.requireRole(w, r, model.RoleEmployer)
	if claims == nil {
		return
	}

	var raw ingest.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	res, err := h.pipeline.Ingest(r.Context(), []ingest.RawRecord{raw}, ingest.ManualOrigin(claims.UserID()))
	if err != nil {
		log.Printf("[board] createJob ingest error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	if len(res.Rejected) > 0 {
		jsonFieldErrors(w, res.Rejected[0].Fields)
		return
	}

	h.cache.invalidate(r.Context())
	jsonStatus(w, http.StatusCreated, res.Accepted[0])
}

func (h *Handler) bulkImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.requireRole(w, r, model.RoleAdmin) == nil {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "read body", http.StatusBadRequest)
		return
	}

	raws := ingest.ParseTSV(string(body))
	res, err := h.pipeline.Ingest(r.Context(), raws, ingest.BulkOrigin())
	if err != nil {
		log.Printf("[board] bulkImport ingest error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	h.cache.invalidate(r.Context())
	jsonOK(w, map[string]int{
		"count":             len(res.Accepted),
		"skippedDuplicates": res.SkippedDuplicates,
		"rejected":          len(res.Rejected),
	})
}

// scrapeImportRequest is the payload the external scraping tool posts after
// a run: the board it scraped plus the normalized records.
type scrapeImportRequest struct {
	Source string             `json:"source"`
	Jobs   []ingest.RawRecord `json:"jobs"`
}

func (h *Handler) scrapeImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.requireRole(w, r, model.RoleAdmin) == nil {
		return
	}

	var req scrapeImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		jsonError(w, "source is required", http.StatusBadRequest)
		return
	}

	res, err := h.pipeline.Ingest(r.Context(), req.Jobs, ingest.ScrapeOrigin(req.Source))
	if err != nil {
		log.Printf("[board] scrapeImport ingest error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	h.cache.invalidate(r.Context())
	jsonOK(w, map[string]int{
		"count":             len(res.Accepted),
		"skippedDuplicates": res.SkippedDuplicates,
		"rejected":          len(res.Rejected),
	})
}

// ── Applications ──────────────────────────────────────────────────────────

func (h *Handler) applyToJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims := h.requireRole(w, r, model.RoleCandidate)
	if claims == nil {
		return
	}

	if _, err := h.store.FindJobByID(r.Context(), jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		log.Printf("[board] applyToJob store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	app := model.Application{
		ID:        uuid.NewString(),
		UserID:    claims.UserID(),
		JobID:     jobID,
		CreatedAt: time.Now().UTC(),
	}
	created, err := h.store.CreateApplication(r.Context(), app)
	if err != nil {
		log.Printf("[board] applyToJob store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]bool{
		"applied":        true,
		"alreadyApplied": !created,
	})
}
