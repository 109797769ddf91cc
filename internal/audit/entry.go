package audit

// EventType names a DLP event recorded in the audit log.
type EventType string

const (
	EventClassified         EventType = "classified"
	EventBlocked            EventType = "blocked"
	EventWarned             EventType = "warned"
	EventClipboardScrubbed  EventType = "clipboard_scrubbed"
	EventDuplicateRemoved   EventType = "duplicate_removed"
	EventDuplicateRemoveErr EventType = "duplicate_remove_failed"
	EventIntegrityViolation EventType = "integrity_violation"
)

// Entry is one line in the hash-chained JSONL audit log. All fields are
// flat scalars (no maps) so json.Marshal field order is deterministic and
// line hashes are reproducible.
type Entry struct {
	Timestamp string    `json:"ts"`
	SessionID string    `json:"session_id,omitempty"`
	Type      EventType `json:"type"`
	Path      string    `json:"path,omitempty"`
	Level     string    `json:"level,omitempty"`
	Action    string    `json:"action,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	PrevHash  string    `json:"prev_hash"`
}
