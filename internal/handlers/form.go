package handlers

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/easyjob/apiserver/internal/services"
)

const (
	maxMultipartMemory = 32 << 20
	maxMultipartBody   = 2 * services.MaxUploadSize
)

var errBodyTooLarge = errors.New("request body too large")

// form is a parsed multipart request. Files opened through upload stay
// open until close is called.
type form struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
	opened []multipart.File
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func parseForm(w http.ResponseWriter, r *http.Request) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, errors.New("invalid multipart form")
	}
	return &form{values: r.MultipartForm.Value, files: r.MultipartForm.File}, nil
}

// text returns the submitted value of key, or nil when the field
// was not submitted.
func (f *form) text(key string) *string {
	values, ok := f.values[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// ints reads an id list submitted either as repeated fields or as one
// comma-separated value.
func (f *form) ints(key string) (*[]int, error) {
	values, ok := f.values[key]
	if !ok {
		return nil, nil
	}
	ids := []int{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid %s", key)
			}
			ids = append(ids, id)
		}
	}
	return &ids, nil
}

func (f *form) upload(key string) (*services.Upload, error) {
	headers := f.files[key]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > 1 {
		return nil, fmt.Errorf("only one %s file is allowed", key)
	}
	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", key, err)
	}
	f.opened = append(f.opened, file)
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, nil
}

func (f *form) close() {
	for _, file := range f.opened {
		_ = file.Close()
	}
}

// writeFormError answers a request whose body could not be decoded.
func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
