// Package protect owns the enhanced-protection state machine. Whenever the
// set of open documents changes, the coordinator rescans their
// classifications and starts or stops the always-on guards accordingly:
// any open confidential document means both guards run.
package protect

import (
	"fmt"
	"os"
	"sync"

	"github.com/docsentry/docsentry/internal/model"
)

// State is the process-wide enhanced-protection state.
type State string

const (
	Inactive State = "inactive"
	Active   State = "active"
)

// Classifier is the classification lookup the rescan uses.
type Classifier interface {
	GetClassification(path string) (model.Level, error)
}

// GuardSet is the pair of guards the coordinator toggles. Both Start and
// Stop must be idempotent; Stop must clear any per-activation state
// (the clipboard guard clears its tracked fragments).
type GuardSet interface {
	Start() error
	Stop()
}

// Coordinator transitions between Inactive and Active based on the open
// document set. Safe for concurrent Rescan calls.
type Coordinator struct {
	classifier Classifier
	guards     GuardSet

	mu    sync.Mutex
	state State
}

// New creates a Coordinator in the Inactive state.
func New(classifier Classifier, guards GuardSet) *Coordinator {
	return &Coordinator{
		classifier: classifier,
		guards:     guards,
		state:      Inactive,
	}
}

// State returns the current protection state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rescan re-evaluates the open document set and toggles the guards.
// Called on every open/close/active-editor change. A document whose
// lookup fails counts as not confidential; the scan never aborts.
func (c *Coordinator) Rescan(openDocs []string) State {
	confidential := false
	for _, doc := range openDocs {
		level, err := c.classifier.GetClassification(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "protect: classification lookup %s: %v\n", doc, err)
			continue
		}
		if level == model.Confidential {
			confidential = true
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case confidential && c.state == Inactive:
		if err := c.guards.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "protect: start guards: %v\n", err)
			return c.state
		}
		c.state = Active
		fmt.Fprintf(os.Stderr, "protect: enhanced protection activated\n")

	case !confidential && c.state == Active:
		c.guards.Stop()
		c.state = Inactive
		fmt.Fprintf(os.Stderr, "protect: enhanced protection deactivated\n")
	}
	// Same-state triggers are no-ops.

	return c.state
}

// Shutdown forces the Inactive state, stopping the guards if running.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Active {
		c.guards.Stop()
		c.state = Inactive
	}
}
