// Package dupguard interdicts duplication of confidential files. While
// active it watches for file creation and, when a new file's name looks
// like a copy of a confidential sibling, deletes it after a short delay.
package dupguard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsentry/docsentry/internal/model"
)

// DefaultDeleteDelay is how long the guard waits before removing a
// detected duplicate. The delay avoids racing the process still writing
// the file; a duplicate moved or renamed inside the window may survive,
// which is accepted.
const DefaultDeleteDelay = 500 * time.Millisecond

// Classifier is the classification lookup the guard needs.
type Classifier interface {
	GetClassification(path string) (model.Level, error)
}

// Event reports one interdiction attempt.
type Event struct {
	DuplicatePath string
	OriginalPath  string
	Deleted       bool
	Err           error
}

// Notify is called after each deletion attempt. A failed deletion is the
// "unauthorized duplication detected" fallback notice.
type Notify func(Event)

// Guard watches directories for created files that duplicate a
// confidential original. Start and Stop are idempotent.
type Guard struct {
	roots       []string
	classifier  Classifier
	deleteDelay time.Duration
	onEvent     Notify

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup // pending delayed deletions
}

// New creates a Guard watching the given root directories. A zero delay
// selects the default.
func New(roots []string, classifier Classifier, deleteDelay time.Duration, onEvent Notify) *Guard {
	if deleteDelay == 0 {
		deleteDelay = DefaultDeleteDelay
	}
	return &Guard{
		roots:       roots,
		classifier:  classifier,
		deleteDelay: deleteDelay,
		onEvent:     onEvent,
	}
}

// Start subscribes to filesystem create events under the roots.
// Idempotent: starting a running guard is a no-op.
func (g *Guard) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dupguard: create watcher: %w", err)
	}
	for _, root := range g.roots {
		if err := watcher.Add(root); err != nil {
			// A missing root is not fatal; the rest keep being watched.
			fmt.Fprintf(os.Stderr, "dupguard: watch %s: %v\n", root, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.done = make(chan struct{})

	go g.run(ctx, watcher, g.done)
	return nil
}

// Stop unsubscribes from the watcher and waits for pending delayed
// deletions to settle. Idempotent.
func (g *Guard) Stop() {
	g.mu.Lock()
	if g.cancel == nil {
		g.mu.Unlock()
		return
	}
	cancel, done := g.cancel, g.done
	g.cancel = nil
	g.done = nil
	g.mu.Unlock()

	cancel()
	<-done
	g.wg.Wait()
}

// Running reports whether the watcher loop is active.
func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Guard) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// Watch newly created subdirectories; fsnotify is not recursive.
				if err := watcher.Add(event.Name); err != nil {
					fmt.Fprintf(os.Stderr, "dupguard: watch %s: %v\n", event.Name, err)
				}
				continue
			}
			g.inspect(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			_ = err
		}
	}
}

// inspect scans the new file's siblings for a confidential original the
// file appears to duplicate. Per-file lookup and directory-read errors
// are swallowed; the watcher keeps running regardless.
func (g *Guard) inspect(ctx context.Context, path string) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	base := filepath.Base(path)
	for _, e := range entries {
		if e.IsDir() || e.Name() == base {
			continue
		}
		sibling := filepath.Join(dir, e.Name())

		level, err := g.classifier.GetClassification(sibling)
		if err != nil || level != model.Confidential {
			continue
		}
		if !IsDuplicateOf(base, e.Name()) {
			continue
		}

		g.scheduleDelete(ctx, path, sibling)
		return
	}
}

// scheduleDelete removes the duplicate after the configured delay.
func (g *Guard) scheduleDelete(ctx context.Context, path, original string) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		select {
		case <-time.After(g.deleteDelay):
		case <-ctx.Done():
			// Stop before the delay elapsed; the next activation's scan
			// will not see the event again, which is accepted.
			return
		}

		err := os.Remove(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dupguard: unauthorized duplication detected, could not remove %s: %v\n", path, err)
		} else {
			fmt.Fprintf(os.Stderr, "dupguard: removed duplicate of confidential file: %s\n", path)
		}
		if g.onEvent != nil {
			g.onEvent(Event{
				DuplicatePath: path,
				OriginalPath:  original,
				Deleted:       err == nil,
				Err:           err,
			})
		}
	}()
}
