package app

import (
	"errors"

	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/store"
)

var (
	// ErrInvalidInput marks caller mistakes: malformed or blocked URLs,
	// unknown audit types, empty owners.
	ErrInvalidInput = errors.New("invalid input")
	ErrJobNotFound  = errors.New("job not found")
	// ErrNoAudits is returned by operations that need at least one stored audit.
	ErrNoAudits = errors.New("target has no audits")
)

// TargetExistsError is returned by CreateTarget when the owner already has a
// target for the canonical URL. It matches store.ErrConflict.
type TargetExistsError struct {
	Existing *model.Target
}

func (e *TargetExistsError) Error() string {
	return "target already exists for " + e.Existing.URL
}

func (e *TargetExistsError) Is(target error) bool { return target == store.ErrConflict }
