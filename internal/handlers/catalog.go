package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// CategoryHandler provides HTTP handlers for vacancy categories.
type CategoryHandler struct {
	categories *services.CategoryService
}

// CategoryRouter registers category routes on the given router.
func CategoryRouter(r chi.Router, categories *services.CategoryService, auth *Authenticator) {
	handler := &CategoryHandler{categories: categories}

	r.Get("/", handler.ListCategories)
	r.With(auth.RequireAuth).Post("/", handler.CreateCategory)
	r.Route("/{categoryID}", func(r chi.Router) {
		r.Get("/", handler.GetCategory)
		r.With(auth.RequireAuth).Put("/", handler.UpdateCategory)
		r.With(auth.RequireAuth).Patch("/", handler.UpdateCategory)
		r.With(auth.RequireAuth).Delete("/", handler.DeleteCategory)
	})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	paginate(w, r, "failed to list categories", func(page types.Page) ([]types.Category, int, error) {
		return h.categories.List(r.Context(), page)
	}, nil)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Update(r.Context(), id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SkillHandler provides HTTP handlers for skills.
type SkillHandler struct {
	skills *services.SkillService
}

// SkillRouter registers skill routes on the given router.
func SkillRouter(r chi.Router, skills *services.SkillService, auth *Authenticator) {
	handler := &SkillHandler{skills: skills}

	r.Get("/", handler.ListSkills)
	r.With(auth.RequireAuth).Post("/", handler.CreateSkill)
	r.Route("/{skillID}", func(r chi.Router) {
		r.Get("/", handler.GetSkill)
		r.With(auth.RequireAuth).Put("/", handler.UpdateSkill)
		r.With(auth.RequireAuth).Patch("/", handler.UpdateSkill)
		r.With(auth.RequireAuth).Delete("/", handler.DeleteSkill)
	})
}

func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	filter := types.SkillFilter{Search: r.URL.Query().Get("search")}
	paginate(w, r, "failed to list skills", func(page types.Page) ([]types.Skill, int, error) {
		return h.skills.List(r.Context(), filter, page)
	}, nil)
}

func (h *SkillHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "skillID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := h.skills.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch skill")
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var input services.SkillInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := h.skills.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create skill")
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

func (h *SkillHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "skillID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input services.SkillInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := h.skills.Update(r.Context(), id, input, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update skill")
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "skillID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.skills.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete skill")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
