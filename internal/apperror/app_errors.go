package apperror

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidPayload       = errors.New("invalid payload")
	ErrUnknownAction        = errors.New("unknown action")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)
