package handlers

import (
	"net/http"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides HTTP handlers for user accounts.
type UserHandler struct {
	users *services.UserService
	media Media
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users *services.UserService, media Media, auth *Authenticator) {
	handler := &UserHandler{users: users, media: media}

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.Register)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/me", handler.Me)
		r.Patch("/me", handler.UpdateMe)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", handler.GetUser)
			r.Put("/", handler.UpdateUser)
			r.Patch("/", handler.UpdateUser)
			r.Delete("/", handler.DeleteUser)
		})
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	paginate(w, r, "failed to list users", func(page types.Page) ([]types.User, int, error) {
		return h.users.List(r.Context(), page)
	}, h.media.user)
}

// Register creates an account. No tokens are issued; clients call the
// token endpoint afterwards.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, h.media.user(user))
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, h.media.user(actor))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	patch, done, err := decodeUserPatch(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	user, err := h.users.UpdateMe(r.Context(), actor, patch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, h.media.user(user))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, h.media.user(user))
}

// UpdateUser handles PUT and PATCH; PUT requires the full identity.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, done, err := decodeUserPatch(w, r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer done()

	user, err := h.users.Update(r.Context(), actor, id, patch, r.Method == http.MethodPatch)
	if err != nil {
		writeServiceError(w, r, err, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, h.media.user(user))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeUserPatch reads a JSON body or a multipart form carrying an
// optional profile_image file. The returned func releases uploaded files.
func decodeUserPatch(w http.ResponseWriter, r *http.Request) (services.UserPatch, func(), error) {
	var patch services.UserPatch
	if !isMultipart(r) {
		return patch, func() {}, decodeJSON(r, &patch)
	}

	f, err := parseForm(w, r)
	if err != nil {
		return patch, func() {}, err
	}
	image, err := f.upload("profile_image")
	if err != nil {
		f.close()
		return patch, func() {}, err
	}
	patch = services.UserPatch{
		Email:        f.text("email"),
		Username:     f.text("username"),
		FirstName:    f.text("first_name"),
		LastName:     f.text("last_name"),
		PhoneNumber:  f.text("phone_number"),
		ProfileImage: image,
	}
	if userType := f.text("user_type"); userType != nil {
		value := types.UserType(*userType)
		patch.UserType = &value
	}
	return patch, f.close, nil
}
