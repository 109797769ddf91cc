// Package alert fans DLP interdiction events out to configured webhooks.
// Delivery is fire-and-forget: a slow or failing endpoint never blocks
// the guard that produced the event.
package alert

import (
	"fmt"
	"os"
)

// Dispatcher fans out events to matching webhook configurations.
type Dispatcher struct {
	configs []Config
}

// NewDispatcher creates a Dispatcher. Returns nil when configs is empty;
// callers nil-check before dispatching.
func NewDispatcher(configs []Config) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch sends the event to every webhook whose Events list contains the
// event's type. Fires goroutines — does not block the caller.
func (d *Dispatcher) Dispatch(event Event) {
	for _, cfg := range d.configs {
		if !matches(cfg.Events, event.Type) {
			continue
		}
		cfg := cfg
		go func() {
			if err := Send(cfg, event); err != nil {
				fmt.Fprintf(os.Stderr, "alert: %s: %v\n", cfg.URL, err)
			}
		}()
	}
}

func matches(events []string, eventType string) bool {
	for _, e := range events {
		if e == eventType || e == "*" {
			return true
		}
	}
	return false
}
