package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation reports malformed or out-of-range input. Fields carries
// per-field messages (registration); Cause carries a single message.
type ErrValidation struct {
	Cause  string
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	if len(e.Fields) == 0 {
		return e.Cause
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
	return strings.Join(parts, "; ")
}

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
