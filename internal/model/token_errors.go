package model

import "errors"

var (
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrRevocationCheck = errors.New("revocation check failed")
)
