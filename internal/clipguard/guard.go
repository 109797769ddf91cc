// Package clipguard actively scrubs the system clipboard while enhanced
// protection is on. Fragments copied out of confidential documents are
// tracked; a periodic check clears the clipboard the moment a tracked
// fragment reappears in it.
package clipguard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

const (
	// DefaultInterval is the clipboard poll period.
	DefaultInterval = 1000 * time.Millisecond

	// minFragmentLen is the trimmed-length floor below which copied text is
	// not tracked. Short snippets produce too many false matches.
	minFragmentLen = 10

	// maxFragments bounds the tracked set. Oldest entries are evicted first.
	maxFragments = 50

	// ioTimeout caps a single clipboard read or write. A timeout is a
	// transient negative result, never a loop-killing error.
	ioTimeout = 3 * time.Second
)

// Clipboard is the system clipboard capability the guard needs.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard is the production Clipboard backed by the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Read() (string, error)   { return clipboard.ReadAll() }
func (SystemClipboard) Write(text string) error { return clipboard.WriteAll(text) }

// Notify is called after a successful scrub with the matched fragment.
type Notify func(fragment string)

// Guard monitors the clipboard for tracked confidential fragments.
// Start and Stop are idempotent; the zero interval selects the default.
type Guard struct {
	clip     Clipboard
	interval time.Duration
	onScrub  Notify

	mu        sync.Mutex
	fragments []string // FIFO by insertion order
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Guard. A nil Clipboard selects the system clipboard.
func New(clip Clipboard, interval time.Duration, onScrub Notify) *Guard {
	if clip == nil {
		clip = SystemClipboard{}
	}
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Guard{clip: clip, interval: interval, onScrub: onScrub}
}

// Track records a copied confidential fragment. Trimmed content at or
// below the length floor is ignored. When the set exceeds its bound the
// single oldest fragment is evicted.
func (g *Guard) Track(text string) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= minFragmentLen {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.fragments = append(g.fragments, trimmed)
	if len(g.fragments) > maxFragments {
		g.fragments = g.fragments[1:]
	}
}

// Start begins the periodic clipboard check. Idempotent: starting a
// running guard is a no-op.
func (g *Guard) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.done = make(chan struct{})

	go g.run(ctx, g.done)
}

// Stop cancels the periodic check and clears the tracked set entirely.
// Idempotent. The in-flight tick, if any, completes before Stop returns.
func (g *Guard) Stop() {
	g.mu.Lock()
	if g.cancel == nil {
		g.mu.Unlock()
		return
	}
	cancel, done := g.cancel, g.done
	g.cancel = nil
	g.done = nil
	g.fragments = nil
	g.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the monitor loop is active.
func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

// TrackedCount returns the current tracked-set size.
func (g *Guard) TrackedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.fragments)
}

func (g *Guard) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.check()
		}
	}
}

// check reads the clipboard once and scrubs it on the first fragment
// match. Clipboard errors are transient (focus, permissions) and ignored.
func (g *Guard) check() {
	content, err := readWithTimeout(g.clip)
	if err != nil || content == "" {
		return
	}

	g.mu.Lock()
	var fragment string
	for _, f := range g.fragments {
		// Bidirectional containment: a partial copy of a tracked fragment
		// and a tracked fragment buried in larger content both match.
		if strings.Contains(content, f) || strings.Contains(f, content) {
			fragment = f
			break
		}
	}
	g.mu.Unlock()

	if fragment == "" {
		return
	}

	// Overwrite before forgetting: on a transient write failure the
	// fragment stays tracked and the next tick retries the scrub.
	if err := g.clip.Write(""); err != nil {
		fmt.Fprintf(os.Stderr, "clipguard: clear clipboard: %v\n", err)
		return
	}

	g.mu.Lock()
	for i, f := range g.fragments {
		if f == fragment {
			g.fragments = append(g.fragments[:i], g.fragments[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	if g.onScrub != nil {
		g.onScrub(fragment)
	}
}

// readWithTimeout guards against a wedged clipboard provider. The read
// runs in its own goroutine; on timeout the result is discarded.
func readWithTimeout(clip Clipboard) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := clip.Read()
		ch <- result{text, err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-time.After(ioTimeout):
		return "", context.DeadlineExceeded
	}
}
