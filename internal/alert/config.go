package alert

// Config defines one webhook alert destination.
type Config struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic" or "slack"
	Events  []string          `yaml:"events"  json:"events"` // e.g. ["blocked", "duplicate_removed"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Event is the payload sent to webhook endpoints when the DLP core
// interdicts something.
type Event struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"` // audit event type
	Path      string `json:"path,omitempty"`
	Level     string `json:"level,omitempty"`
	Action    string `json:"action,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
