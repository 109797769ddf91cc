package policy

import (
	"testing"

	"github.com/docsentry/docsentry/internal/model"
)

func TestConfidentialTable(t *testing.T) {
	cases := []struct {
		action model.Action
		want   model.Decision
	}{
		{model.ActionCopy, model.Block},
		{model.ActionCut, model.Block},
		{model.ActionDuplicate, model.Block},
		{model.ActionSaveAs, model.Block},
		{model.ActionRename, model.Block},
		{model.ActionExternalUpload, model.Block},
		{model.ActionPaste, model.Allow},
		{model.ActionDelete, model.Allow},
	}
	for _, c := range cases {
		d := Evaluate(model.Confidential, c.action)
		if d.Level != c.want {
			t.Errorf("confidential/%s: got %s, want %s", c.action, d.Level, c.want)
		}
		if c.want == model.Block && (d.Allowed || d.Message == "") {
			t.Errorf("confidential/%s: block must carry allowed=false and a message", c.action)
		}
		if c.want == model.Allow && !d.Allowed {
			t.Errorf("confidential/%s: allow must carry allowed=true", c.action)
		}
	}
}

func TestConfidentialDefaultDeny(t *testing.T) {
	// Unenumerated actions are blocked for confidential, allowed elsewhere.
	d := Evaluate(model.Confidential, model.Action("print"))
	if d.Level != model.Block || d.Allowed {
		t.Errorf("confidential/print: got %+v, want block", d)
	}
	for _, l := range []model.Level{model.Public, model.Internal, model.Personal, model.Unclassified} {
		if d := Evaluate(l, model.Action("print")); d.Level != model.Allow {
			t.Errorf("%s/print: got %s, want allow", l, d.Level)
		}
	}
}

func TestExternalUploadWarns(t *testing.T) {
	for _, l := range []model.Level{model.Internal, model.Personal} {
		d := Evaluate(l, model.ActionExternalUpload)
		if d.Level != model.Warn {
			t.Errorf("%s/external_upload: got %s, want warn", l, d.Level)
		}
		if d.Allowed || !d.RequiresConfirmation {
			t.Errorf("%s/external_upload: want allowed=false requiresConfirmation=true, got %+v", l, d)
		}
	}
}

func TestOpenTiersAllowEverything(t *testing.T) {
	for _, l := range []model.Level{model.Public, model.Unclassified} {
		for _, a := range model.KnownActions {
			d := Evaluate(l, a)
			if d.Level != model.Allow || !d.Allowed {
				t.Errorf("%s/%s: got %+v, want allow", l, a, d)
			}
		}
	}
}

func TestEvaluateIsPure(t *testing.T) {
	for _, l := range append([]model.Level{model.Unclassified}, model.Levels...) {
		for _, a := range model.KnownActions {
			first := Evaluate(l, a)
			for i := 0; i < 3; i++ {
				if got := Evaluate(l, a); got != first {
					t.Fatalf("%s/%s: evaluation not stable: %+v vs %+v", l, a, first, got)
				}
			}
		}
	}
}
