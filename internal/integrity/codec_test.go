package integrity

import (
	"strings"
	"testing"

	"github.com/docsentry/docsentry/internal/model"
)

func TestComputeHashDeterministic(t *testing.T) {
	a := ComputeHash("/work/report.txt", model.Confidential, 1700000000000)
	b := ComputeHash("/work/report.txt", model.Confidential, 1700000000000)
	if a != b {
		t.Errorf("same inputs produced different digests: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "sha256:") {
		t.Errorf("digest missing sha256 prefix: %s", a)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	r := Record{
		Identity:        "/work/report.txt",
		Level:           model.Confidential,
		TimestampMillis: 1700000000000,
	}
	r.IntegrityHash = ComputeHash(r.Identity, r.Level, r.TimestampMillis)

	if !Verify(r) {
		t.Fatal("unmodified record failed verification")
	}

	mutations := []struct {
		name   string
		mutate func(Record) Record
	}{
		{"level", func(r Record) Record { r.Level = model.Public; return r }},
		{"timestamp", func(r Record) Record { r.TimestampMillis++; return r }},
		{"path", func(r Record) Record { r.Identity = "/work/other.txt"; return r }},
		{"hash", func(r Record) Record { r.IntegrityHash = "sha256:deadbeef"; return r }},
	}
	for _, m := range mutations {
		if Verify(m.mutate(r)) {
			t.Errorf("record with mutated %s passed verification", m.name)
		}
	}
}

func TestWatermarkHashDomainSeparated(t *testing.T) {
	c := ComputeHash("/work/report.txt", model.Confidential, 1700000000000)
	w := WatermarkHash("/work/report.txt", model.Confidential, 1700000000000)
	if c == w {
		t.Error("watermark hash must differ from classification hash")
	}
}
