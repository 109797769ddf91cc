package docsentry

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/docsentry/docsentry/internal/audit"
	"github.com/docsentry/docsentry/internal/config"
)

// memBackend is an in-memory attribute backend for tests.
type memBackend struct {
	mu    sync.Mutex
	attrs map[string]string
	reads int
}

func newMemBackend() *memBackend {
	return &memBackend{attrs: make(map[string]string)}
}

func (m *memBackend) Get(path, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	v, ok := m.attrs[path+"\x00"+name]
	if !ok {
		return "", os.ErrNotExist
	}
	return v, nil
}

func (m *memBackend) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *memBackend) Set(path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[path+"\x00"+name] = value
	return nil
}

type memClipboard struct {
	mu      sync.Mutex
	content string
}

func (c *memClipboard) Read() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, nil
}

func (c *memClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = text
	return nil
}

func (c *memClipboard) get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

func newTestCore(t *testing.T, opts ...Option) *Core {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BackupTempDir = filepath.Join(dir, "tmpbackups")
	cfg.BackupUserDir = filepath.Join(dir, "userbackups")
	cfg.ClipboardIntervalMs = 20
	base := []Option{
		WithConfig(cfg),
		WithBackend(newMemBackend()),
		WithClipboard(&memClipboard{}),
		WithoutAudit(),
		WithWatchRoots(dir),
	}
	core, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { core.Close() })
	return core
}

func TestClassifyOnceAndRead(t *testing.T) {
	core := newTestCore(t)
	path := filepath.Join(t.TempDir(), "report.txt")

	if err := core.Classify(path, LevelConfidential); err != nil {
		t.Fatal(err)
	}
	if err := core.Classify(path, LevelConfidential); !errors.Is(err, ErrAlreadyClassified) {
		t.Fatalf("reclassify: got %v, want ErrAlreadyClassified", err)
	}

	level, err := core.GetClassification(path)
	if err != nil || level != LevelConfidential {
		t.Fatalf("got %q (%v)", level, err)
	}

	ok, err := core.VerifyIntegrity(path)
	if err != nil || !ok {
		t.Fatalf("fresh record failed integrity check: ok=%v err=%v", ok, err)
	}
}

func TestVerifyIntegrityReadsRecordOnce(t *testing.T) {
	backend := newMemBackend()
	core := newTestCore(t, WithBackend(backend))
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := core.Classify(path, LevelConfidential); err != nil {
		t.Fatal(err)
	}

	before := backend.readCount()
	ok, err := core.VerifyIntegrity(path)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	// One record fetch: classification, created_at, integrity.
	if got := backend.readCount() - before; got != 3 {
		t.Errorf("backend reads per verification = %d, want 3", got)
	}
}

func TestEvaluateFileAction(t *testing.T) {
	core := newTestCore(t)
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := core.Classify(path, LevelConfidential); err != nil {
		t.Fatal(err)
	}

	decision, err := core.EvaluateFileAction(path, ActionCopy)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed || decision.Level != "block" {
		t.Errorf("confidential copy: %+v", decision)
	}

	// Unclassified files pass everything.
	decision, err = core.EvaluateFileAction(filepath.Join(t.TempDir(), "other.txt"), ActionExternalUpload)
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Errorf("unclassified external_upload: %+v", decision)
	}
}

func TestProtectionLifecycle(t *testing.T) {
	clip := &memClipboard{}
	core := newTestCore(t, WithClipboard(clip))

	secret := filepath.Join(t.TempDir(), "secret.txt")
	if err := core.Classify(secret, LevelConfidential); err != nil {
		t.Fatal(err)
	}

	if core.State() != ProtectionInactive {
		t.Fatal("fresh core must be inactive")
	}

	if got := core.OnOpenDocumentSetChanged([]string{secret}); got != ProtectionActive {
		t.Fatalf("state = %s, want active", got)
	}

	// Copied confidential content is scrubbed from the clipboard.
	core.TrackCopiedContent("API_KEY=abcdef1234")
	clip.Write("API_KEY=abcdef1234")
	deadline := time.Now().Add(3 * time.Second)
	for clip.get() != "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if clip.get() != "" {
		t.Error("tracked fragment not scrubbed while protection active")
	}

	if got := core.OnOpenDocumentSetChanged(nil); got != ProtectionInactive {
		t.Fatalf("state = %s, want inactive", got)
	}
}

// stubClipGuard and stubDupGuard record lifecycle calls.
type stubClipGuard struct {
	started, stopped bool
}

func (s *stubClipGuard) Start() { s.started = true }
func (s *stubClipGuard) Stop()  { s.stopped = true }

type stubDupGuard struct {
	err     error
	stopped bool
}

func (s *stubDupGuard) Start() error { return s.err }
func (s *stubDupGuard) Stop()        { s.stopped = true }

func TestGuardSetRollsBackPartialStart(t *testing.T) {
	clip := &stubClipGuard{}
	dup := &stubDupGuard{err: errors.New("watcher init failed")}
	gs := guardSet{clip: clip, dup: dup}

	if err := gs.Start(); err == nil {
		t.Fatal("start succeeded with a failing duplication guard")
	}
	if !clip.started {
		t.Fatal("clipboard guard never started")
	}
	if !clip.stopped {
		t.Error("clipboard guard left running after partial start")
	}

	// A clean start leaves both running.
	clip2 := &stubClipGuard{}
	gs = guardSet{clip: clip2, dup: &stubDupGuard{}}
	if err := gs.Start(); err != nil {
		t.Fatal(err)
	}
	if clip2.stopped {
		t.Error("clipboard guard stopped on successful start")
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseLevel("Confidential") != LevelConfidential {
		t.Error("ParseLevel failed")
	}
	if ParseLevel("nonsense") != LevelUnclassified {
		t.Error("ParseLevel must fail closed")
	}
	if ParseAction("Copy") != ActionCopy {
		t.Error("ParseAction failed")
	}
}

func TestCoreWithAuditLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.AuditLog = filepath.Join(dir, "dlp.jsonl")
	cfg.BackupTempDir = filepath.Join(dir, "tmpbackups")
	cfg.BackupUserDir = filepath.Join(dir, "userbackups")

	core, err := New(
		WithBackend(newMemBackend()),
		WithClipboard(&memClipboard{}),
		WithConfig(cfg),
		WithWatchRoots(dir),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer core.Close()

	path := filepath.Join(dir, "report.txt")
	if err := core.Classify(path, LevelConfidential); err != nil {
		t.Fatal(err)
	}
	if _, err := core.EvaluateFileAction(path, ActionCopy); err != nil {
		t.Fatal(err)
	}

	// Both events landed in a valid chain.
	result := audit.Verify(cfg.AuditLog)
	if !result.Valid || result.Lines != 2 {
		t.Fatalf("audit chain: %+v", result)
	}
}
