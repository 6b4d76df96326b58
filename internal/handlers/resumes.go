package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ResumeHandler provides HTTP handlers for the caller's resumes.
type ResumeHandler struct {
	resumes *services.ResumeService
	media   Media
}

// ResumeRouter registers resume routes on the given router. Every route
// requires authentication.
func ResumeRouter(r chi.Router, resumes *services.ResumeService, media Media, auth *Authenticator) {
	handler := &ResumeHandler{resumes: resumes, media: media}

	r.Use(auth.RequireAuth)
	r.Get("/", handler.ListResumes)
	r.Post("/", handler.CreateResume)
	r.Route("/{resumeID}", func(r chi.Router) {
		r.Get("/", handler.GetResume)
		r.Put("/", handler.UpdateResume)
		r.Patch("/", handler.UpdateResume)
		r.Delete("/", handler.DeleteResume)
	})
}

func (h *ResumeHandler) ListResumes(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	paginate(w, r, "failed to list resumes", func(page types.Page) ([]types.Resume, int, error) {
		return h.resumes.List(r.Context(), actor, page)
	}, h.media.resume)
}

func (h *ResumeHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "resumeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resume, err := h.resumes.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch resume")
		return
	}
	writeJSON(w, http.StatusOK, h.media.resume(resume))
}

func (h *ResumeHandler) CreateResume(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	input, done, err := decodeResumeInput(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	resume, err := h.resumes.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create resume")
		return
	}
	writeJSON(w, http.StatusCreated, h.media.resume(resume))
}

func (h *ResumeHandler) UpdateResume(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "resumeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, done, err := decodeResumeInput(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	resume, err := h.resumes.Update(r.Context(), actor, id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update resume")
		return
	}
	writeJSON(w, http.StatusOK, h.media.resume(resume))
}

func (h *ResumeHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "resumeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.resumes.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, "failed to delete resume")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeResumeInput(w http.ResponseWriter, r *http.Request) (services.ResumeInput, func(), error) {
	var input services.ResumeInput
	if !isMultipart(r) {
		return input, func() {}, decodeJSON(r, &input)
	}

	f, err := parseForm(w, r)
	if err != nil {
		return input, func() {}, err
	}
	skills, err := f.ints("skills")
	if err != nil {
		return input, func() {}, err
	}
	file, err := f.upload("file")
	if err != nil {
		f.close()
		return input, func() {}, err
	}
	return services.ResumeInput{
		Title:      f.text("title"),
		Experience: f.text("experience"),
		Education:  f.text("education"),
		Skills:     skills,
		File:       file,
	}, f.close, nil
}
