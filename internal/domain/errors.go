package domain

import "errors"

var (
	ErrObservationNotFound = errors.New("observation not found")
	ErrInvalidContent      = errors.New("invalid observation content")
	ErrInvalidLocation     = errors.New("invalid location")
	ErrUnknownTemplate     = errors.New("unknown template type")
	ErrInvalidCatalog      = errors.New("invalid template catalog")
	ErrUnsupportedDriver   = errors.New("unsupported storage driver")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)
