package observability

import (
	"context"
	"errors"

	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/normalizer"
)

// AuditObserver feeds auditor transitions into the browser gauge and the
// results counter.
type AuditObserver struct{}

func (AuditObserver) OnTransition(t auditor.Transition) {
	switch t.To {
	case auditor.StateResourceAcquired:
		BrowsersLive.Inc()
	case auditor.StateResourceReleased:
		BrowsersLive.Dec()
	case auditor.StateTerminal:
		AuditResults.WithLabelValues(Outcome(t.Err)).Inc()
	}
}

// Outcome maps a run error to an AuditResults label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.Is(err, auditor.ErrResourceAcquisition):
		return OutcomeResourceAcquisition
	case errors.Is(err, normalizer.ErrNormalization):
		return OutcomeNormalization
	default:
		return OutcomeEngineFailure
	}
}
