package docsentry

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/docsentry/docsentry/internal/alert"
	"github.com/docsentry/docsentry/internal/audit"
	"github.com/docsentry/docsentry/internal/clipguard"
	"github.com/docsentry/docsentry/internal/config"
	"github.com/docsentry/docsentry/internal/dupguard"
	"github.com/docsentry/docsentry/internal/model"
	"github.com/docsentry/docsentry/internal/policy"
	"github.com/docsentry/docsentry/internal/protect"
	"github.com/docsentry/docsentry/internal/store"
)

// Re-exported domain types, so hosts never import internal packages.
type (
	Level           = model.Level
	Action          = model.Action
	PolicyDecision  = model.PolicyDecision
	ProtectionState = protect.State
)

// Classification levels.
const (
	LevelUnclassified = model.Unclassified
	LevelPublic       = model.Public
	LevelInternal     = model.Internal
	LevelConfidential = model.Confidential
	LevelPersonal     = model.Personal
)

// Evaluable actions.
const (
	ActionCopy           = model.ActionCopy
	ActionCut            = model.ActionCut
	ActionPaste          = model.ActionPaste
	ActionDuplicate      = model.ActionDuplicate
	ActionRename         = model.ActionRename
	ActionSaveAs         = model.ActionSaveAs
	ActionDelete         = model.ActionDelete
	ActionExternalUpload = model.ActionExternalUpload
)

// Protection states.
const (
	ProtectionInactive = protect.Inactive
	ProtectionActive   = protect.Active
)

// ErrAlreadyClassified is returned by Classify for an already-classified file.
var ErrAlreadyClassified = store.ErrAlreadyClassified

// ParseLevel normalizes a raw level string, failing closed to
// LevelUnclassified on unrecognized input.
func ParseLevel(raw string) Level { return model.ParseLevel(raw) }

// ParseAction normalizes a raw action string.
func ParseAction(raw string) Action { return model.ParseAction(raw) }

// Core is the DLP aggregate: classification store, policy engine, guards,
// and the protection coordinator, constructed once at host startup and
// torn down with Close.
type Core struct {
	store       *store.Store
	clip        *clipguard.Guard
	dup         *dupguard.Guard
	coordinator *protect.Coordinator

	auditLog  *audit.Log
	alerts    *alert.Dispatcher
	sessionID string
}

// clipGuard and dupGuard are the lifecycle surfaces guardSet drives.
type clipGuard interface {
	Start()
	Stop()
}

type dupGuard interface {
	Start() error
	Stop()
}

// guardSet adapts the two guards to the coordinator's start/stop pair.
// A partial start is rolled back: either both guards run or neither does.
type guardSet struct {
	clip clipGuard
	dup  dupGuard
}

func (g guardSet) Start() error {
	g.clip.Start()
	if err := g.dup.Start(); err != nil {
		g.clip.Stop()
		return err
	}
	return nil
}

func (g guardSet) Stop() {
	g.clip.Stop()
	g.dup.Stop()
}

// New constructs a Core. Defaults: xattr persistence, the system
// clipboard, configuration from config.Default().
func New(opts ...Option) (*Core, error) {
	cc := coreConfig{cfg: config.Default()}
	for _, opt := range opts {
		opt(&cc)
	}
	if cc.loadErr != nil {
		return nil, cc.loadErr
	}

	core := &Core{sessionID: uuid.NewString()}

	if !cc.noAudit && cc.cfg.AuditLog != "" {
		log, err := audit.Open(cc.cfg.AuditLog)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		core.auditLog = log
	}
	core.alerts = alert.NewDispatcher(cc.cfg.Alerts)

	core.store = store.New(store.Config{
		Backend:  cc.backend,
		CacheTTL: cc.cfg.CacheTTL(),
		Backups: store.BackupConfig{
			NoSidecar: cc.cfg.NoSidecar,
			TempDir:   cc.cfg.BackupTempDir,
			UserDir:   cc.cfg.BackupUserDir,
		},
	})

	core.clip = clipguard.New(cc.clipboard, cc.cfg.ClipboardInterval(), func(fragment string) {
		core.record(audit.Entry{
			Type:   audit.EventClipboardScrubbed,
			Detail: fmt.Sprintf("cleared clipboard holding %d tracked characters", len(fragment)),
		})
	})

	core.dup = dupguard.New(cc.cfg.WatchRoots, core.store, cc.cfg.DeleteDelay(), func(e dupguard.Event) {
		entry := audit.Entry{
			Type:   audit.EventDuplicateRemoved,
			Path:   e.DuplicatePath,
			Detail: "duplicate of " + e.OriginalPath,
		}
		if !e.Deleted {
			entry.Type = audit.EventDuplicateRemoveErr
			entry.Detail = fmt.Sprintf("unauthorized duplication detected, removal failed: %v", e.Err)
		}
		core.record(entry)
	})

	core.coordinator = protect.New(core.store, guardSet{clip: core.clip, dup: core.dup})
	return core, nil
}

// Close stops the guards and closes the audit log.
func (c *Core) Close() error {
	c.coordinator.Shutdown()
	if c.auditLog != nil {
		return c.auditLog.Close()
	}
	return nil
}

// Classify attaches a permanent classification to a file. Fails with
// ErrAlreadyClassified if the file already carries one; the existing
// record is never mutated.
func (c *Core) Classify(path string, level Level) error {
	if err := c.store.SetClassification(path, level); err != nil {
		return err
	}
	c.record(audit.Entry{
		Type:  audit.EventClassified,
		Path:  store.Identity(path),
		Level: string(level),
	})
	return nil
}

// GetClassification returns the file's classification, or
// LevelUnclassified when no record exists.
func (c *Core) GetClassification(path string) (Level, error) {
	return c.store.GetClassification(path)
}

// VerifyIntegrity recomputes the file's record digest and checks it
// against the stored one. A mismatch is recorded as an integrity
// violation. Unclassified files report (false, nil).
func (c *Core) VerifyIntegrity(path string) (bool, error) {
	rec, err := c.store.GetRecord(path)
	if err != nil || rec == nil {
		return false, err
	}
	ok := store.VerifyRecord(rec)
	if !ok {
		c.record(audit.Entry{
			Type:  audit.EventIntegrityViolation,
			Path:  store.Identity(path),
			Level: string(rec.Level),
		})
	}
	return ok, nil
}

// Record describes a file's persisted classification.
type Record struct {
	Identity      string
	Level         Level
	CreatedAt     time.Time
	IntegrityHash string
}

// Inspect returns the file's full classification record, or nil when the
// file is unclassified.
func (c *Core) Inspect(path string) (*Record, error) {
	rec, err := c.store.GetRecord(path)
	if err != nil || rec == nil {
		return nil, err
	}
	return &Record{
		Identity:      rec.Identity,
		Level:         rec.Level,
		CreatedAt:     time.UnixMilli(rec.CreatedAtMillis).UTC(),
		IntegrityHash: rec.IntegrityHash,
	}, nil
}

// EvaluateAction applies the DLP decision table. Pure: no lookup, no
// side effects.
func (c *Core) EvaluateAction(level Level, action Action) PolicyDecision {
	return policy.Evaluate(level, action)
}

// EvaluateFileAction looks up the file's classification and evaluates the
// action against it, recording blocked and warned outcomes.
func (c *Core) EvaluateFileAction(path string, action Action) (PolicyDecision, error) {
	level, err := c.store.GetClassification(path)
	if err != nil {
		return PolicyDecision{}, err
	}
	decision := policy.Evaluate(level, action)
	if decision.Level != model.Allow {
		entry := audit.Entry{
			Type:     audit.EventWarned,
			Path:     store.Identity(path),
			Level:    string(level),
			Action:   string(action),
			Decision: string(decision.Level),
		}
		if decision.Level == model.Block {
			entry.Type = audit.EventBlocked
		}
		c.record(entry)
	}
	return decision, nil
}

// OnOpenDocumentSetChanged re-evaluates enhanced protection against the
// current open-document set. Call it on every open, close, and
// active-editor change.
func (c *Core) OnOpenDocumentSetChanged(openDocs []string) ProtectionState {
	return c.coordinator.Rescan(openDocs)
}

// TrackCopiedContent records text copied or cut out of a confidential
// document so the clipboard guard can scrub it if it resurfaces.
func (c *Core) TrackCopiedContent(text string) {
	c.clip.Track(text)
}

// State returns the current protection state.
func (c *Core) State() ProtectionState {
	return c.coordinator.State()
}

// record writes an audit entry and fans the event out to alert webhooks.
// Best-effort on both counts: DLP enforcement never fails because its
// paper trail did.
func (c *Core) record(entry audit.Entry) {
	entry.SessionID = c.sessionID
	if c.auditLog != nil {
		if err := c.auditLog.Record(entry); err != nil {
			fmt.Fprintf(os.Stderr, "docsentry: audit: %v\n", err)
		}
	}
	if c.alerts != nil {
		c.alerts.Dispatch(alert.Event{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Type:      string(entry.Type),
			Path:      entry.Path,
			Level:     entry.Level,
			Action:    entry.Action,
			Decision:  entry.Decision,
			Detail:    entry.Detail,
		})
	}
}
