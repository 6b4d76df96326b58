package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/types"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"title": "This field is required."}}, http.StatusBadRequest, "validation failed"},
		{"not found", fmt.Errorf("load: %w", &services.NotFoundError{Resource: "vacancy"}), http.StatusNotFound, "vacancy not found"},
		{"permission", services.ErrPermissionDenied, http.StatusForbidden, "permission denied"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"uploads", services.ErrUploadsDisabled, http.StatusServiceUnavailable, services.ErrUploadsDisabled.Error()},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "failed to do thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "failed to do thing")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decodeBody[ErrorResponse](t, rec)
			if body.Error != tt.msg {
				t.Fatalf("error = %q, want %q", body.Error, tt.msg)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		wantErr  bool
	}{
		{query: "", page: 1, pageSize: 20},
		{query: "page=3&page_size=5", page: 3, pageSize: 5},
		{query: "page_size=500", page: 1, pageSize: 100},
		{query: "page=0", wantErr: true},
		{query: "page=abc", wantErr: true},
		{query: "page_size=-1", wantErr: true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/items?"+tt.query, nil)
		page, pageSize, err := parsePagination(req)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parsePagination(%q) error = %v", tt.query, err)
		}
		if !tt.wantErr && (page != tt.page || pageSize != tt.pageSize) {
			t.Fatalf("parsePagination(%q) = %d, %d", tt.query, page, pageSize)
		}
	}
}

func TestPaginateLinks(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i + 1
	}
	list := func(page types.Page) ([]int, int, error) {
		end := page.Offset + page.Limit
		if page.Offset >= len(items) {
			return nil, len(items), nil
		}
		if end > len(items) {
			end = len(items)
		}
		return append([]int(nil), items[page.Offset:end]...), len(items), nil
	}

	req := httptest.NewRequest(http.MethodGet, "http://api.test/api/v1/items?page=2&search=go", nil)
	rec := httptest.NewRecorder()
	paginate(rec, req, "failed to list", list, func(v int) int { return v * 10 })
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[ListResponse[int]](t, rec)
	if body.Count != 45 || len(body.Results) != 20 || body.Results[0] != 210 {
		t.Fatalf("unexpected page: count=%d len=%d first=%v", body.Count, len(body.Results), body.Results)
	}
	if body.Next == nil || *body.Next != "http://api.test/api/v1/items?page=3&search=go" {
		t.Fatalf("next = %v", body.Next)
	}
	if body.Previous == nil || *body.Previous != "http://api.test/api/v1/items?search=go" {
		t.Fatalf("previous = %v", body.Previous)
	}

	req = httptest.NewRequest(http.MethodGet, "http://api.test/api/v1/items?page=3", nil)
	rec = httptest.NewRecorder()
	paginate(rec, req, "failed to list", list, nil)
	body = decodeBody[ListResponse[int]](t, rec)
	if body.Next != nil || len(body.Results) != 5 {
		t.Fatalf("last page next = %v len = %d", body.Next, len(body.Results))
	}

	req = httptest.NewRequest(http.MethodGet, "http://api.test/api/v1/items?page=4", nil)
	rec = httptest.NewRecorder()
	paginate(rec, req, "failed to list", list, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("out of range status = %d, want 404", rec.Code)
	}
}

func TestPaginateEmptyFirstPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	paginate(rec, req, "failed to list", func(types.Page) ([]string, int, error) {
		return nil, 0, nil
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"count\":0,\"next\":null,\"previous\":null,\"results\":[]}\n" {
		t.Fatalf("body = %s", got)
	}
}

func TestPageURLHonoursForwardedProto(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://api.test/items", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	link := pageURL(req, 2, 10, 30)
	if link == nil || *link != "https://api.test/items?page=2" {
		t.Fatalf("pageURL = %v", link)
	}
}
