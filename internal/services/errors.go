package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/go-crm/internal/store"
	"github.com/diewo77/go-crm/validation"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("concurrent modification")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrSuggesterDisabled = errors.New("rule suggester is not configured")
)

// NotFoundError reports a record id that does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries the per-field violations of a rejected input.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError is returned when a document kept changing underneath a
// line mutation until the retry budget ran out.
type ConflictError struct {
	DocumentID string
	Attempts   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("document %q modified concurrently, gave up after %d attempts", e.DocumentID, e.Attempts)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// storeErr maps store failures onto service errors.
func storeErr(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{Entity: entity, ID: id}
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %s %s: %v", ErrStoreUnavailable, entity, id, err)
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// names converts an enum vocabulary for validation.OneOf.
func names[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
