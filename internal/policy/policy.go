// Package policy is the DLP decision table: (classification, action) →
// allow / warn / block, with a human-readable message. Pure — no I/O, no
// state, identical inputs always produce identical decisions.
package policy

import (
	"fmt"

	"github.com/docsentry/docsentry/internal/model"
)

// blockedForConfidential enumerates the actions the confidential tier
// blocks outright. Everything not listed in blockedForConfidential or
// allowedForConfidential is blocked too (default-deny).
var blockedForConfidential = map[model.Action]bool{
	model.ActionCopy:           true,
	model.ActionCut:            true,
	model.ActionDuplicate:      true,
	model.ActionSaveAs:         true,
	model.ActionRename:         true,
	model.ActionExternalUpload: true,
}

// allowedForConfidential enumerates the only actions the confidential
// tier permits.
var allowedForConfidential = map[model.Action]bool{
	model.ActionPaste:  true,
	model.ActionDelete: true,
}

// Evaluate applies the decision table to one requested action.
//
// Every tier except confidential is default-allow; confidential is
// default-deny, so an unrecognized action on a confidential file is
// blocked. The asymmetry is deliberate fail-closed behavior for the
// highest sensitivity tier and must not be "fixed".
func Evaluate(level model.Level, action model.Action) model.PolicyDecision {
	switch level {
	case model.Confidential:
		if allowedForConfidential[action] {
			return allowDecision()
		}
		if blockedForConfidential[action] {
			return blockDecision(action)
		}
		// Default-deny: unenumerated actions are treated as potential leaks.
		return blockDecision(action)

	case model.Internal, model.Personal:
		if action == model.ActionExternalUpload {
			return model.PolicyDecision{
				Allowed:              false,
				RequiresConfirmation: true,
				Message:              fmt.Sprintf("%s file: external upload requires confirmation", level),
				Level:                model.Warn,
			}
		}
		return allowDecision()

	default:
		// Public and unclassified files are unrestricted.
		return allowDecision()
	}
}

func allowDecision() model.PolicyDecision {
	return model.PolicyDecision{Allowed: true, Level: model.Allow}
}

func blockDecision(action model.Action) model.PolicyDecision {
	return model.PolicyDecision{
		Allowed: false,
		Message: fmt.Sprintf("blocked by DLP policy: %q is not permitted on confidential files", action),
		Level:   model.Block,
	}
}
