package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/model"
)

// refreshTokenCookie is the cookie under which browser clients carry
// the refresh token.
const refreshTokenCookie = "refresh_token"

// AuthService defines registration, login, logout and refresh
// operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.PublicUser, error)
	Login(ctx context.Context, email, password string) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new user account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.NewErrValidation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apierrors.NewErrValidation("email and password are required"))
		return
	}

	h.logger.Debug("Auth handler: processing registration request", "email", req.Email)

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: registration completed", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a token pair. Browser clients
// receive the refresh token as an HTTP-only cookie instead of in the
// response body.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.NewErrValidation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apierrors.NewErrValidation("email and password are required"))
		return
	}

	h.logger.Debug("Auth handler: processing login request", "email", req.Email)

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "email", req.Email)

	h.writePair(w, r, http.StatusCreated, pair)
}

// Refresh rotates the presented refresh token into a new pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFromRequest(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingToken())
		return
	}

	pair, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.logger.Error("Auth handler: refresh failed", "error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: refresh completed")

	h.writePair(w, r, http.StatusOK, pair)
}

// Logout revokes the presented refresh token and clears the cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFromRequest(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingToken())
		return
	}

	if err := h.authService.Logout(r.Context(), refreshToken); err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: logout completed")

	if isBrowser(r) {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshTokenCookie,
			Value:    "",
			Path:     "/api/auth",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// refreshTokenFromRequest pulls the refresh token from the cookie when
// present, otherwise from the JSON body.
func (h *Auth) refreshTokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		return "", false
	}
	return req.RefreshToken, true
}

func (h *Auth) writePair(w http.ResponseWriter, r *http.Request, status int, pair model.TokenPair) {
	if isBrowser(r) {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshTokenCookie,
			Value:    pair.RefreshToken,
			Path:     "/api/auth",
			MaxAge:   int(pair.ExpiresIn),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
		pair.RefreshToken = ""
	}

	writeJSON(w, status, pair)
}

// isBrowser reports whether the request came from a browser. Browsers
// send an Origin header on cross-origin and POST requests, and the
// web frontend additionally marks itself with X-Client.
func isBrowser(r *http.Request) bool {
	return r.Header.Get("Origin") != "" || r.Header.Get("X-Client") == "web"
}
