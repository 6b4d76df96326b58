package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[int]types.User{}}
}

func (m *memUsers) List(_ context.Context, page types.Page) ([]types.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.User{}
	for id := 1; id <= m.nextID; id++ {
		if user, ok := m.users[id]; ok {
			out = append(out, user)
		}
	}
	total := len(out)
	if page.Offset >= total {
		return []types.User{}, total, nil
	}
	end := page.Offset + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return out[page.Offset:end], total, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return types.User{}, &store.ConstraintError{Constraint: "users_email_key", Field: "email", Kind: store.KindUnique}
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.DateJoined = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) Update(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type testAPI struct {
	router http.Handler
	users  *memUsers
	tokens *TokenIssuer
}

// newTestAPI mounts the API with only the user service backed. Routes
// that reach another service must be rejected before they get there.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := newMemUsers()
	uploads := services.NewUploader(nil, slog.Default())
	tokens := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	svc := Services{
		Users:     services.NewUserService(users, uploads),
		Vacancies: services.NewVacancyService(services.VacancyRepos{}, nil, false),
	}

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		APIRouter(r, svc, tokens, NewMedia("http://media.test"))
	})
	return &testAPI{router: router, users: users, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func (a *testAPI) register(t *testing.T, email string, userType types.UserType) types.User {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/users", "", map[string]string{
		"email":      email,
		"password":   "pa55word",
		"password2":  "pa55word",
		"first_name": "Test",
		"last_name":  "User",
		"user_type":  string(userType),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[types.User](t, rec)
}
