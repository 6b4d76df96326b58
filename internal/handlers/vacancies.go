package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// VacancyHandler provides HTTP handlers for vacancies.
type VacancyHandler struct {
	vacancies *services.VacancyService
}

// VacancyRouter registers vacancy routes on the given router. Writes go
// through optional authentication unless the service restricts them to
// company owners.
func VacancyRouter(r chi.Router, vacancies *services.VacancyService, auth *Authenticator) {
	handler := &VacancyHandler{vacancies: vacancies}

	writeAuth := auth.OptionalAuth
	if vacancies.OwnerWrites() {
		writeAuth = auth.RequireAuth
	}

	r.Get("/", handler.ListVacancies)
	r.Get("/featured", handler.FeaturedVacancies)
	r.With(writeAuth).Post("/", handler.CreateVacancy)
	r.Route("/{vacancyID}", func(r chi.Router) {
		r.Get("/", handler.GetVacancy)
		r.With(writeAuth).Put("/", handler.UpdateVacancy)
		r.With(writeAuth).Patch("/", handler.UpdateVacancy)
		r.With(writeAuth).Delete("/", handler.DeleteVacancy)
		r.With(auth.RequireAuth).Post("/apply", handler.Apply)
	})
}

func (h *VacancyHandler) ListVacancies(w http.ResponseWriter, r *http.Request) {
	filter, details := parseVacancyFilter(r)
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: details})
		return
	}
	paginate(w, r, "failed to list vacancies", func(page types.Page) ([]types.Vacancy, int, error) {
		return h.vacancies.List(r.Context(), filter, page)
	}, nil)
}

// FeaturedVacancies returns a plain array.
func (h *VacancyHandler) FeaturedVacancies(w http.ResponseWriter, r *http.Request) {
	vacancies, err := h.vacancies.Featured(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list featured vacancies")
		return
	}
	writeJSON(w, http.StatusOK, vacancies)
}

func (h *VacancyHandler) GetVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "vacancyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vacancy, err := h.vacancies.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch vacancy")
		return
	}
	writeJSON(w, http.StatusOK, vacancy)
}

func (h *VacancyHandler) CreateVacancy(w http.ResponseWriter, r *http.Request) {
	var input services.VacancyInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vacancy, err := h.vacancies.Create(r.Context(), optionalUser(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create vacancy")
		return
	}
	writeJSON(w, http.StatusCreated, vacancy)
}

func (h *VacancyHandler) UpdateVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "vacancyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.VacancyInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vacancy, err := h.vacancies.Update(r.Context(), optionalUser(r.Context()), id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update vacancy")
		return
	}
	writeJSON(w, http.StatusOK, vacancy)
}

func (h *VacancyHandler) DeleteVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "vacancyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.vacancies.Delete(r.Context(), optionalUser(r.Context()), id); err != nil {
		writeServiceError(w, r, err, "failed to delete vacancy")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Apply submits the caller's resume and cover letter to the vacancy.
func (h *VacancyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "vacancyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.ApplyInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.vacancies.Apply(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to apply")
		return
	}
	writeJSON(w, http.StatusCreated, application)
}

// parseVacancyFilter reads list filters from the query string. Invalid
// values are reported per parameter.
func parseVacancyFilter(r *http.Request) (types.VacancyFilter, map[string]string) {
	filter := types.VacancyFilter{Search: r.URL.Query().Get("search")}
	details := map[string]string{}

	for key, dst := range map[string]**int{"category": &filter.CategoryID, "company": &filter.CompanyID} {
		value, err := queryInt(r, key)
		if err != nil {
			details[key] = "Select a valid choice. That choice is not one of the available choices."
			continue
		}
		*dst = value
	}
	if raw := queryString(r, "experience_level"); raw != nil {
		level := types.ExperienceLevel(*raw)
		if !level.Valid() {
			details["experience_level"] = "Select a valid choice. " + *raw + " is not one of the available choices."
		} else {
			filter.ExperienceLevel = &level
		}
	}
	if raw := queryString(r, "job_type"); raw != nil {
		jobType := types.JobType(*raw)
		if !jobType.Valid() {
			details["job_type"] = "Select a valid choice. " + *raw + " is not one of the available choices."
		} else {
			filter.JobType = &jobType
		}
	}
	if raw := queryString(r, "is_active"); raw != nil {
		active, err := strconv.ParseBool(strings.ToLower(*raw))
		if err != nil {
			details["is_active"] = "Select a valid choice. " + *raw + " is not one of the available choices."
		} else {
			filter.IsActive = &active
		}
	}
	return filter, details
}
