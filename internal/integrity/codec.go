// Package integrity computes and verifies the tamper-evident digests bound
// to a file's classification record. The digest combines the file identity,
// level, and timestamp with an embedded secret, so a casual edit of any
// persisted field is detectable on re-verification.
//
// The secret is embedded in the binary and the digest carries no salt, so
// identical inputs always produce identical digests. That is intentional —
// any copy of the binary can re-verify a record offline — but it means the
// digest is tamper evidence, not proof against an adversary who can read
// the embedded secret.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/docsentry/docsentry/internal/model"
)

// Secret is the embedded signing secret. Overridable at build time via:
//
//	-ldflags "-X github.com/docsentry/docsentry/internal/integrity.Secret=<value>"
var Secret = "docsentry-integrity-v1"

// watermarkTag domain-separates watermark digests from classification digests.
const watermarkTag = "watermark"

// ComputeHash returns the integrity digest for a classification record's
// fields. Deterministic: same inputs always yield the same digest.
func ComputeHash(identity string, level model.Level, timestampMillis int64) string {
	return digest(fmt.Sprintf("%s|%s|%d|%s", identity, level, timestampMillis, Secret))
}

// WatermarkHash returns the digest persisted alongside the watermark-active
// flag. Domain-separated from ComputeHash so one cannot stand in for the other.
func WatermarkHash(identity string, level model.Level, timestampMillis int64) string {
	return digest(fmt.Sprintf("%s|%s|%s|%d|%s", watermarkTag, identity, level, timestampMillis, Secret))
}

// Record is the minimal shape Verify needs: the persisted fields a digest binds.
type Record struct {
	Identity        string
	Level           model.Level
	TimestampMillis int64
	IntegrityHash   string
}

// Verify recomputes the digest from the record's stored fields and compares
// it to the stored hash.
func Verify(r Record) bool {
	return r.IntegrityHash == ComputeHash(r.Identity, r.Level, r.TimestampMillis)
}

// digest returns "sha256:<hex>" of the input.
func digest(s string) string {
	h := sha256.Sum256([]byte(s))
	return "sha256:" + hex.EncodeToString(h[:])
}
