package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/auth"
	"github.com/sakif/jobtrack/internal/service"
)

// ApplicationHandler manages CRUD endpoints for job-application records.
//
// All routes sit behind auth.RequireAuth, so every request carries a
// verified identity in its context. The handler's one security job is to
// pass that identity's user ID into every service call — the layers below
// do the actual filtering.
type ApplicationHandler struct {
	apps   *service.ApplicationService
	logger *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(apps *service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		apps:   apps,
		logger: logger,
	}
}

// caller extracts the authenticated identity, failing with 401 if it is
// somehow absent (cannot happen behind RequireAuth, but handlers shouldn't
// assume their middleware configuration).
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Invalid or expired token"))
	}
	return id, ok
}

// HandleList returns all of the caller's applications, newest first.
//
// HTTP: GET /api/applications
func (h *ApplicationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	apps, err := h.apps.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleCreate records a new application.
//
// HTTP: POST /api/applications
// BODY: {"company": "...", "role": "...", "status": "Applied",
//
//	"appliedDate": "2024-03-10", "source": "...", "notes": "..."}
func (h *ApplicationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in service.ApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	app, err := h.apps.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, app)
}

// HandleUpdate replaces an owned application's fields.
//
// HTTP: PUT /api/applications/{id}
//
// URL PARAMETERS:
// r.PathValue("id") extracts the {id} segment — chi populates the request's
// path values, so this works the same as with net/http's pattern router.
func (h *ApplicationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in service.ApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	app, err := h.apps.Update(r.Context(), id.UserID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// HandleDelete removes an owned application.
//
// HTTP: DELETE /api/applications/{id}
func (h *ApplicationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.apps.Delete(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204 — successful deletion, no body
}
