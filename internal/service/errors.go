package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both a missing row and a row owned by someone else.
	// Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is deliberately the same for an unknown username
	// and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries a field -> message map for bad input. It maps to
// HTTP 400 and the request has no side effect.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError, or nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
