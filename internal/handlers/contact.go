package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// ContactHandler provides HTTP handlers for the organisation contact.
type ContactHandler struct {
	contacts *services.ContactService
}

// ContactRouter registers contact routes on the given router.
func ContactRouter(r chi.Router, contacts *services.ContactService, auth *Authenticator) {
	handler := &ContactHandler{contacts: contacts}

	r.Get("/", handler.GetContact)
	r.With(auth.RequireAuth).Post("/", handler.CreateContact)
	r.With(auth.RequireAuth).Put("/", handler.UpsertContact)
	r.Route("/{contactID}", func(r chi.Router) {
		r.Get("/", handler.GetContactByID)
		r.With(auth.RequireAuth).Put("/", handler.UpdateContact)
		r.With(auth.RequireAuth).Patch("/", handler.UpdateContact)
		r.With(auth.RequireAuth).Delete("/", handler.DeleteContact)
	})
}

// GetContact returns the singleton contact record.
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contacts.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch contact")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) GetContactByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch contact")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contacts.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create contact")
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// UpsertContact replaces the singleton record, creating it if missing.
func (h *ContactHandler) UpsertContact(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contacts.Upsert(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to save contact")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.ContactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update contact")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete contact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
