package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ApplicationHandler provides HTTP handlers for job applications.
type ApplicationHandler struct {
	applications *services.ApplicationService
}

// ApplicationRouter registers application routes on the given router.
// Every route requires authentication.
func ApplicationRouter(r chi.Router, applications *services.ApplicationService, auth *Authenticator) {
	handler := &ApplicationHandler{applications: applications}

	r.Use(auth.RequireAuth)
	r.Get("/", handler.ListApplications)
	r.Post("/", handler.CreateApplication)
	r.Route("/{applicationID}", func(r chi.Router) {
		r.Get("/", handler.GetApplication)
		r.Put("/", handler.UpdateApplication)
		r.Patch("/", handler.UpdateApplication)
		r.Delete("/", handler.DeleteApplication)
		r.Post("/update_status", handler.UpdateStatus)
	})
}

func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	paginate(w, r, "failed to list applications", func(page types.Page) ([]types.Application, int, error) {
		return h.applications.List(r.Context(), actor, page)
	}, nil)
}

func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "applicationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.applications.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch application")
		return
	}
	writeJSON(w, http.StatusOK, application)
}

func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var input services.ApplicationInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.applications.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create application")
		return
	}
	writeJSON(w, http.StatusCreated, application)
}

func (h *ApplicationHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "applicationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.ApplicationInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.applications.Update(r.Context(), actor, id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update application")
		return
	}
	writeJSON(w, http.StatusOK, application)
}

func (h *ApplicationHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "applicationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.applications.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, "failed to delete application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus moves the application through review. Only the employer
// owning the vacancy may call it.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "applicationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.applications.UpdateStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		writeServiceError(w, r, err, "failed to update application status")
		return
	}
	writeJSON(w, http.StatusOK, application)
}

type StatusRequest struct {
	Status types.ApplicationStatus `json:"status"`
}
