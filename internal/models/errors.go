package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	ErrProviderDisabled = errors.New("completion provider is disabled")
	ErrProviderFailed   = errors.New("completion provider failed")
)
