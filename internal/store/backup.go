package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docsentry/docsentry/internal/model"
)

// BackupConfig holds the redundant backup locations. A classification
// record is copied to an adjacent hidden sidecar, a temp-directory copy,
// and a per-user persistent copy. Each copy is independent best-effort:
// one location failing never fails classification or corrupts the others.
type BackupConfig struct {
	// NoSidecar disables the adjacent `.<name>.classification` copy.
	NoSidecar bool
	// TempDir holds path-digest-keyed copies. Empty selects the OS temp dir.
	TempDir string
	// UserDir holds path-digest-keyed copies. Empty selects
	// ~/.docsentry/backups.
	UserDir string
}

func (c BackupConfig) withDefaults() BackupConfig {
	if c.TempDir == "" {
		c.TempDir = filepath.Join(os.TempDir(), "docsentry-backups")
	}
	if c.UserDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			c.UserDir = filepath.Join(os.TempDir(), "docsentry-user-backups")
		} else {
			c.UserDir = filepath.Join(home, ".docsentry", "backups")
		}
	}
	return c
}

// backupRecord is the JSON payload written to every backup location.
type backupRecord struct {
	OriginalFile     string `json:"originalFile"`
	Classification   string `json:"classification"`
	Timestamp        int64  `json:"timestamp"`
	VerificationHash string `json:"verificationHash"`
	CreatedAt        string `json:"createdAt"`
}

// writeBackups copies the record to all configured backup locations,
// continuing past per-location failures.
func (s *Store) writeBackups(rec Record) {
	payload := backupRecord{
		OriginalFile:     rec.Identity,
		Classification:   string(rec.Level),
		Timestamp:        rec.CreatedAtMillis,
		VerificationHash: rec.IntegrityHash,
		CreatedAt:        time.UnixMilli(rec.CreatedAtMillis).UTC().Format(time.RFC3339),
	}

	for _, target := range s.backupTargets(rec.Identity) {
		if err := writeBackupFile(target, payload); err != nil {
			fmt.Fprintf(os.Stderr, "store: backup %s: %v\n", target, err)
		}
	}
}

// backupTargets returns the backup file paths for one identity:
// sidecar next to the original, plus digest-keyed temp and user copies.
func (s *Store) backupTargets(identity string) []string {
	var targets []string
	if !s.backups.NoSidecar {
		dir, base := filepath.Split(identity)
		targets = append(targets, filepath.Join(dir, "."+base+".classification"))
	}
	keyed := pathDigest(identity) + ".classification.json"
	targets = append(targets,
		filepath.Join(s.backups.TempDir, keyed),
		filepath.Join(s.backups.UserDir, keyed),
	)
	return targets
}

// writeBackupFile writes the payload atomically (temp file + rename) so a
// crash mid-write never leaves a truncated backup.
func writeBackupFile(path string, payload backupRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadBackup loads a backup record from one of the digest-keyed locations,
// trying temp dir first, then the user dir. Used for recovery inspection.
func (s *Store) ReadBackup(path string) (*Record, error) {
	id := Identity(path)
	keyed := pathDigest(id) + ".classification.json"
	candidates := []string{
		filepath.Join(s.backups.TempDir, keyed),
		filepath.Join(s.backups.UserDir, keyed),
	}
	if !s.backups.NoSidecar {
		dir, base := filepath.Split(id)
		candidates = append([]string{filepath.Join(dir, "."+base+".classification")}, candidates...)
	}

	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		var payload backupRecord
		if err := json.Unmarshal(data, &payload); err != nil {
			continue
		}
		return &Record{
			Identity:        payload.OriginalFile,
			Level:           model.ParseLevel(payload.Classification),
			CreatedAtMillis: payload.Timestamp,
			IntegrityHash:   payload.VerificationHash,
		}, nil
	}
	return nil, fmt.Errorf("no backup found for %s", id)
}

// pathDigest keys backup files by a digest of the original path so copies
// from different files never collide.
func pathDigest(identity string) string {
	h := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(h[:16])
}
