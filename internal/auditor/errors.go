package auditor

import (
	"errors"
	"fmt"

	"github.com/raysh454/seolens/internal/normalizer"
)

var (
	ErrResourceAcquisition = errors.New("browser resource acquisition failed")
	ErrEngineFailure       = errors.New("audit engine failure")
	// ErrNormalization is re-exported so callers only need this package.
	ErrNormalization = normalizer.ErrNormalization
)

// Kind tags a RunError with the stage that failed.
type Kind string

const (
	KindResourceAcquisition Kind = "resource_acquisition"
	KindEngine              Kind = "engine_failure"
	KindNormalization       Kind = "normalization"
)

// RunError is returned by Auditor.Run. It matches the sentinel for its Kind
// and unwraps to the underlying cause.
type RunError struct {
	Kind   Kind
	Target string
	Cause  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("audit failed for %s: %v", e.Target, e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }

func (e *RunError) Is(target error) bool {
	switch e.Kind {
	case KindResourceAcquisition:
		return target == ErrResourceAcquisition
	case KindEngine:
		return target == ErrEngineFailure
	case KindNormalization:
		return target == ErrNormalization
	}
	return false
}
