// Package store persists and retrieves the permanent classification record
// for a file. Records are write-once: the first successful classification
// wins and later attempts fail without mutating state. Reads go through a
// short-lived cache; writes fan out best-effort backup copies to up to
// three independent locations.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/docsentry/docsentry/internal/integrity"
	"github.com/docsentry/docsentry/internal/model"
)

// DefaultCacheTTL is how long a cached lookup (including a negative one)
// is trusted before the persisted record is re-read.
const DefaultCacheTTL = 60 * time.Second

// Record is the persisted classification for one file identity.
type Record struct {
	Identity        string      `json:"identity"`
	Level           model.Level `json:"level"`
	CreatedAtMillis int64       `json:"created_at_millis"`
	IntegrityHash   string      `json:"integrity_hash"`
}

// cacheEntry caches one lookup result. A level of Unclassified is a valid
// cached negative result.
type cacheEntry struct {
	level      model.Level
	observedAt time.Time
}

// Config holds store construction parameters. Zero values select defaults.
type Config struct {
	Backend  Backend
	Backups  BackupConfig
	CacheTTL time.Duration
}

// Store is the classification store. Safe for concurrent use.
type Store struct {
	backend  Backend
	backups  BackupConfig
	cacheTTL time.Duration

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry

	// writeMu serializes the classified-check against the record write so
	// the write-once invariant holds under concurrent SetClassification
	// calls for the same identity.
	writeMu sync.Mutex
}

// New creates a Store. A nil Backend selects the xattr backend.
func New(cfg Config) *Store {
	if cfg.Backend == nil {
		cfg.Backend = XattrBackend{}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	cfg.Backups = cfg.Backups.withDefaults()
	return &Store{
		backend:  cfg.Backend,
		backups:  cfg.Backups,
		cacheTTL: cfg.CacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

// Identity returns the canonical file identity for a path: absolute and
// cleaned. All public methods apply it to their path arguments.
func Identity(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// GetClassification returns the file's classification, or Unclassified if
// no record exists. "Not found" is never an error. Results — including
// negative ones — are cached until the TTL elapses.
func (s *Store) GetClassification(path string) (model.Level, error) {
	id := Identity(path)

	s.cacheMu.RLock()
	e, ok := s.cache[id]
	s.cacheMu.RUnlock()
	if ok && time.Since(e.observedAt) < s.cacheTTL {
		return e.level, nil
	}

	level, err := s.readLevel(id)
	if err != nil {
		return model.Unclassified, err
	}

	s.cacheMu.Lock()
	s.cache[id] = cacheEntry{level: level, observedAt: time.Now()}
	s.cacheMu.Unlock()

	return level, nil
}

// GetRecord reads the full persisted record, bypassing the cache.
// Returns (nil, nil) when the file is unclassified.
func (s *Store) GetRecord(path string) (*Record, error) {
	id := Identity(path)

	raw, err := s.backend.Get(id, attrClassification)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read classification: %w", err)
	}

	rec := &Record{Identity: id, Level: model.ParseLevel(raw)}

	if ts, err := s.backend.Get(id, attrCreatedAt); err == nil {
		rec.CreatedAtMillis, _ = strconv.ParseInt(ts, 10, 64)
	}
	if h, err := s.backend.Get(id, attrIntegrity); err == nil {
		rec.IntegrityHash = h
	}
	return rec, nil
}

// VerifyRecord recomputes an already-fetched record's digest and compares
// it to the stored one. Callers holding a record from GetRecord use this
// to avoid a second backend read.
func VerifyRecord(rec *Record) bool {
	if rec == nil {
		return false
	}
	return integrity.Verify(integrity.Record{
		Identity:        rec.Identity,
		Level:           rec.Level,
		TimestampMillis: rec.CreatedAtMillis,
		IntegrityHash:   rec.IntegrityHash,
	})
}

// VerifyIntegrity recomputes the record's digest and compares it to the
// stored one. Returns (false, nil) for unclassified files.
func (s *Store) VerifyIntegrity(path string) (bool, error) {
	rec, err := s.GetRecord(path)
	if err != nil || rec == nil {
		return false, err
	}
	return VerifyRecord(rec), nil
}

// SetClassification creates the permanent classification record for a file.
// Fails with ErrAlreadyClassified if a record already exists (checked
// fresh, bypassing the cache). The primary record write is the only
// sub-step whose failure aborts the operation; watermark metadata, DSPM
// metadata, and backup copies are best-effort.
func (s *Store) SetClassification(path string, level model.Level) error {
	if !level.IsAssignable() {
		return fmt.Errorf("cannot classify as %q", level)
	}
	id := Identity(path)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.readLevel(id)
	if err != nil {
		return &StorageError{Op: "read", Path: id, Err: err}
	}
	if existing != model.Unclassified {
		return ErrAlreadyClassified
	}

	now := time.Now().UnixMilli()
	hash := integrity.ComputeHash(id, level, now)

	// Primary record. Failure here aborts the whole operation.
	primary := []struct{ name, value string }{
		{attrClassification, string(level)},
		{attrCreatedAt, strconv.FormatInt(now, 10)},
		{attrIntegrity, hash},
	}
	for _, a := range primary {
		if err := s.backend.Set(id, a.name, a.value); err != nil {
			return &StorageError{Op: "write", Path: id, Err: err}
		}
	}

	// Watermark and DSPM metadata — best-effort.
	derived := []struct{ name, value string }{
		{attrWatermark, "true"},
		{attrWatermarkHash, integrity.WatermarkHash(id, level, now)},
		{attrPolicyID, model.PolicyIDFor(level)},
		{attrProtectionLevel, string(model.ProtectionFor(level))},
	}
	for _, a := range derived {
		if err := s.backend.Set(id, a.name, a.value); err != nil {
			fmt.Fprintf(os.Stderr, "store: write %s on %s: %v\n", a.name, id, err)
		}
	}

	// Redundant backup copies — each location independent, best-effort.
	s.writeBackups(Record{
		Identity:        id,
		Level:           level,
		CreatedAtMillis: now,
		IntegrityHash:   hash,
	})

	s.Invalidate(id)
	return nil
}

// Invalidate drops the cached lookup for a path unconditionally.
func (s *Store) Invalidate(path string) {
	id := Identity(path)
	s.cacheMu.Lock()
	delete(s.cache, id)
	s.cacheMu.Unlock()
}

// readLevel reads the persisted level directly from the backend.
// Absent attribute means Unclassified; unrecognized values parse closed
// to Unclassified.
func (s *Store) readLevel(id string) (model.Level, error) {
	raw, err := s.backend.Get(id, attrClassification)
	if err != nil {
		if isNotFound(err) {
			return model.Unclassified, nil
		}
		return model.Unclassified, err
	}
	return model.ParseLevel(raw), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errAttrNotFound) || errors.Is(err, os.ErrNotExist)
}
