package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/model"
)

func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
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
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
