package model

import "strings"

// Level is a file's permanent sensitivity classification.
type Level string

const (
	// Unclassified means no record exists for the file. It is also the
	// fail-closed parse result for unrecognized persisted values.
	Unclassified Level = ""

	Public       Level = "public"
	Internal     Level = "internal"
	Confidential Level = "confidential"
	Personal     Level = "personal"
)

// Levels lists the assignable classification levels.
var Levels = []Level{Public, Internal, Confidential, Personal}

// ParseLevel normalizes a raw persisted or user-supplied string to a Level.
// Unrecognized input parses to Unclassified — internal logic never
// re-normalizes case after this boundary.
func ParseLevel(raw string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(raw))) {
	case Public:
		return Public
	case Internal:
		return Internal
	case Confidential:
		return Confidential
	case Personal:
		return Personal
	default:
		return Unclassified
	}
}

// IsAssignable reports whether l is a level a caller may classify a file as.
// Unclassified is a lookup result, never an assignable level.
func (l Level) IsAssignable() bool {
	switch l {
	case Public, Internal, Confidential, Personal:
		return true
	default:
		return false
	}
}

// Action is a file operation evaluated against the DLP decision table.
type Action string

const (
	ActionCopy           Action = "copy"
	ActionCut            Action = "cut"
	ActionPaste          Action = "paste"
	ActionDuplicate      Action = "duplicate"
	ActionRename         Action = "rename"
	ActionSaveAs         Action = "save_as"
	ActionDelete         Action = "delete"
	ActionExternalUpload Action = "external_upload"
)

// KnownActions lists every action the decision table enumerates.
var KnownActions = []Action{
	ActionCopy, ActionCut, ActionPaste, ActionDuplicate,
	ActionRename, ActionSaveAs, ActionDelete, ActionExternalUpload,
}

// ParseAction normalizes a raw action string. Unrecognized actions pass
// through lowercased — the policy table treats them per tier (blocked for
// confidential, allowed everywhere else).
func ParseAction(raw string) Action {
	return Action(strings.ToLower(strings.TrimSpace(raw)))
}

// Decision is the policy enforcement outcome for one evaluated action.
type Decision string

const (
	Allow Decision = "allow"
	Warn  Decision = "warn"
	Block Decision = "block"
)

// PolicyDecision is the full result of one policy evaluation.
// Pure value, produced fresh per evaluation.
type PolicyDecision struct {
	Allowed              bool     `json:"allowed"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	Message              string   `json:"message,omitempty"`
	Level                Decision `json:"level"`
}

// ProtectionLevel is the enforcement intensity string persisted as DSPM
// metadata alongside a classification.
type ProtectionLevel string

const (
	ProtectionMaximum ProtectionLevel = "maximum"
	ProtectionHigh    ProtectionLevel = "high"
	ProtectionMedium  ProtectionLevel = "medium"
	ProtectionLow     ProtectionLevel = "low"
)

// ProtectionFor derives the DSPM protection level for a classification.
func ProtectionFor(l Level) ProtectionLevel {
	switch l {
	case Confidential:
		return ProtectionMaximum
	case Personal:
		return ProtectionHigh
	case Internal:
		return ProtectionMedium
	default:
		return ProtectionLow
	}
}

// PolicyIDFor derives the DSPM policy identifier for a classification.
func PolicyIDFor(l Level) string {
	return "dspm-" + string(ProtectionFor(l))
}
