package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// CompanyHandler provides HTTP handlers for companies.
type CompanyHandler struct {
	companies *services.CompanyService
	media     Media
}

// CompanyRouter registers company routes on the given router.
func CompanyRouter(r chi.Router, companies *services.CompanyService, media Media, auth *Authenticator) {
	handler := &CompanyHandler{companies: companies, media: media}

	r.Get("/", handler.ListCompanies)
	r.Get("/popular", handler.PopularCompanies)
	r.With(auth.RequireAuth).Post("/", handler.CreateCompany)
	r.Route("/{companyID}", func(r chi.Router) {
		r.Get("/", handler.GetCompany)
		r.With(auth.RequireAuth).Put("/", handler.UpdateCompany)
		r.With(auth.RequireAuth).Patch("/", handler.UpdateCompany)
		r.With(auth.RequireAuth).Delete("/", handler.DeleteCompany)
	})
}

func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	filter := types.CompanyFilter{
		Search:   r.URL.Query().Get("search"),
		Location: queryString(r, "location"),
	}
	paginate(w, r, "failed to list companies", func(page types.Page) ([]types.Company, int, error) {
		return h.companies.List(r.Context(), filter, page)
	}, h.media.company)
}

// PopularCompanies returns a plain array ranked by active vacancies.
func (h *CompanyHandler) PopularCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.Popular(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list popular companies")
		return
	}
	for i := range companies {
		companies[i] = h.media.company(companies[i])
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "companyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	company, err := h.companies.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch company")
		return
	}
	writeJSON(w, http.StatusOK, h.media.company(company))
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	input, done, err := decodeCompanyInput(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	company, err := h.companies.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create company")
		return
	}
	writeJSON(w, http.StatusCreated, h.media.company(company))
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "companyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, done, err := decodeCompanyInput(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	company, err := h.companies.Update(r.Context(), actor, id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update company")
		return
	}
	writeJSON(w, http.StatusOK, h.media.company(company))
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "companyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.companies.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, "failed to delete company")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCompanyInput(w http.ResponseWriter, r *http.Request) (services.CompanyInput, func(), error) {
	var input services.CompanyInput
	if !isMultipart(r) {
		return input, func() {}, decodeJSON(r, &input)
	}

	f, err := parseForm(w, r)
	if err != nil {
		return input, func() {}, err
	}
	logo, err := f.upload("logo")
	if err != nil {
		f.close()
		return input, func() {}, err
	}
	return services.CompanyInput{
		Name:        f.text("name"),
		Description: f.text("description"),
		Website:     f.text("website"),
		Location:    f.text("location"),
		Logo:        logo,
	}, f.close, nil
}
