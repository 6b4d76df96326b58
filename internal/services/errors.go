package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/easyjob/apiserver/internal/store"
)

// ErrPermissionDenied is returned when an authenticated caller may not act
// on a record it can see.
var ErrPermissionDenied = errors.New("permission denied")

// ErrUploadsDisabled is returned when a file is submitted but no object
// storage backend is configured.
var ErrUploadsDisabled = errors.New("file uploads are not configured")

// ValidationError reports field-level input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError names the resource that could not be found. It matches
// store.ErrNotFound under errors.Is.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrNotFound
}

const (
	msgRequired = "This field is required."
	msgInvalid  = "Invalid value."
)

// fieldErrors collects validation problems before returning them at once.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, msgRequired)
	}
}

func (f fieldErrors) maxLength(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		f.add(field, "Ensure this field has no more than "+strconv.Itoa(limit)+" characters.")
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// wrap converts repository errors into service errors for resource.
func wrap(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return err
		}
		return &NotFoundError{Resource: resource}
	}
	var constraint *store.ConstraintError
	if errors.As(err, &constraint) {
		return invalid(constraint.Field, constraintMessage(resource, constraint))
	}
	return err
}

func constraintMessage(resource string, err *store.ConstraintError) string {
	switch err.Kind {
	case store.KindUnique:
		return fmt.Sprintf("%s with this %s already exists.", resource, err.Field)
	case store.KindForeignKey:
		return "Invalid pk - object does not exist."
	default:
		return msgInvalid
	}
}
