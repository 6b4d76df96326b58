package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/easyjob/apiserver/internal/storage"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ObjectReader opens stored uploads for download.
type ObjectReader interface {
	Open(ctx context.Context, key string) (storage.Object, error)
}

// Media turns stored object keys into public URLs in responses.
type Media struct {
	baseURL string
}

// NewMedia builds URLs as baseURL + "/" + key.
func NewMedia(baseURL string) Media {
	return Media{baseURL: strings.TrimRight(baseURL, "/")}
}

func (m Media) url(key string) string {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return m.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (m Media) optional(key *string) *string {
	if key == nil {
		return nil
	}
	link := m.url(*key)
	return &link
}

func (m Media) user(user types.User) types.User {
	user.ProfileImage = m.optional(user.ProfileImage)
	return user
}

func (m Media) company(company types.Company) types.Company {
	company.Logo = m.optional(company.Logo)
	return company
}

func (m Media) resume(resume types.Resume) types.Resume {
	resume.File = m.url(resume.File)
	return resume
}

// MediaRouter serves uploaded files from object storage.
func MediaRouter(r chi.Router, objects ObjectReader) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := path.Clean("/" + chi.URLParam(r, "*"))[1:]
		if key == "" || objects == nil {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}

		object, err := objects.Open(r.Context(), key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "file not found")
				return
			}
			writeServiceError(w, r, err, "failed to read file")
			return
		}
		defer object.Body.Close()

		contentType := object.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		if object.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(object.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, object.Body)
	})
}
