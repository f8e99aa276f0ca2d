package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, apiErr)
		return
	}

	switch {
	case errors.Is(err, model.ErrRevocationCheck):
		apiErr = apierrors.NewErrDependencyUnavailable()
	case errors.Is(err, model.ErrTokenRevoked):
		apiErr = apierrors.NewErrRevokedToken()
	case errors.Is(err, model.ErrTokenExpired), errors.Is(err, model.ErrTokenInvalid):
		apiErr = apierrors.NewErrInvalidToken()
	default:
		apiErr = apierrors.NewErrInternal()
	}

	writeJSON(w, apiErr.Status, apiErr)
}
