package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type contextKey string

const contextUserKey contextKey = "user"

// TokenIssuer signs and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given secret and
// lifetimes.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type tokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (t *TokenIssuer) issue(userID int, tokenType string) (string, error) {
	ttl := t.accessTTL
	if tokenType == tokenTypeRefresh {
		ttl = t.refreshTTL
	}
	now := time.Now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Pair issues a fresh access and refresh token for userID.
func (t *TokenIssuer) Pair(userID int) (TokenPair, error) {
	access, err := t.issue(userID, tokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.issue(userID, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// subject verifies tokenString and returns its user id. The token must
// carry the wanted token_type.
func (t *TokenIssuer) subject(tokenString, tokenType string) (int, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return 0, errors.New("wrong token type")
	}
	id, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || id < 1 {
		return 0, errors.New("invalid subject")
	}
	return id, nil
}

// Authenticator resolves bearer tokens into users.
type Authenticator struct {
	users  *services.UserService
	tokens *TokenIssuer
}

func NewAuthenticator(users *services.UserService, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// RequireAuth rejects requests without a valid access token and injects
// the authenticated user into the context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		a.serveAs(w, r, next, tokenString)
	})
}

// OptionalAuth lets anonymous requests through. A token that is present
// but invalid is still rejected.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		a.serveAs(w, r, next, tokenString)
	})
}

func (a *Authenticator) serveAs(w http.ResponseWriter, r *http.Request, next http.Handler, tokenString string) {
	userID, err := a.tokens.subject(tokenString, tokenTypeAccess)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeServiceError(w, r, err, "failed to load user")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := context.WithValue(r.Context(), contextUserKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

// optionalUser returns the authenticated user, or nil for anonymous
// requests.
func optionalUser(ctx context.Context) *types.User {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil
	}
	return &user
}

// TokenHandler provides the token obtain and refresh endpoints.
type TokenHandler struct {
	users  *services.UserService
	tokens *TokenIssuer
}

// TokenRouter registers token routes on the given router.
func TokenRouter(r chi.Router, users *services.UserService, tokens *TokenIssuer) {
	handler := &TokenHandler{users: users, tokens: tokens}

	r.Post("/", handler.Obtain)
	r.Post("/refresh", handler.Refresh)
}

// Obtain exchanges credentials for an access and refresh token.
func (h *TokenHandler) Obtain(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		details["email"] = "This field is required."
	}
	if req.Password == "" {
		details["password"] = "This field is required."
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}
		writeServiceError(w, r, err, "failed to authenticate")
		return
	}

	pair, err := h.tokens.Pair(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new access token.
func (h *TokenHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: map[string]string{"refresh": "This field is required."},
		})
		return
	}

	userID, err := h.tokens.subject(req.Refresh, tokenTypeRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	access, err := h.tokens.issue(user.ID, tokenTypeAccess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	writeJSON(w, http.StatusOK, AccessResponse{Access: access})
}

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
