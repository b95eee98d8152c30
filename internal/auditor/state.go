package auditor

import (
	"fmt"
	"time"

	"github.com/raysh454/seolens/internal/logging"
)

// State is a step of a single audit run.
type State string

const (
	StateIdle             State = "idle"
	StateResourceAcquired State = "resource_acquired"
	StateEngineRunning    State = "engine_running"
	StateSuccess          State = "success"
	StateEngineFailure    State = "engine_failure"
	StateResourceReleased State = "resource_released"
	StateTerminal         State = "terminal"
)

// Transition is delivered to observers on every state change.
type Transition struct {
	Target string
	From   State
	To     State
	At     time.Time
	// Err is set when entering a failure state or when a run terminates
	// without a result.
	Err error
}

// Observer receives transitions synchronously from the running audit.
// Implementations must not block.
type Observer interface {
	OnTransition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

func (f ObserverFunc) OnTransition(t Transition) { f(t) }

type tracker struct {
	target    string
	state     State
	observers []Observer
	now       func() time.Time
	logger    logging.Logger
}

func (t *tracker) to(next State, err error) {
	tr := Transition{Target: t.target, From: t.state, To: next, At: t.now(), Err: err}
	t.state = next
	for _, o := range t.observers {
		t.notify(o, tr)
	}
}

// notify contains observer panics so they cannot skip the browser release.
func (t *tracker) notify(o Observer, tr Transition) {
	defer func() {
		if r := recover(); r != nil && t.logger != nil {
			t.logger.Error("audit observer panicked",
				logging.F("target", t.target),
				logging.F("state", string(tr.To)),
				logging.Err(fmt.Errorf("panic: %v", r)))
		}
	}()
	o.OnTransition(tr)
}
