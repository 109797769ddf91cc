// Package docsentry provides in-process data-loss-prevention for editor
// hosts and tools that manage sensitive files. It attaches a permanent,
// tamper-evident classification to a file, gates file operations through a
// deterministic policy table, and runs two always-on guards — clipboard
// scrubbing and duplicate-file interdiction — whenever a confidential
// document is open.
//
// Usage:
//
//	core, err := docsentry.New(docsentry.WithConfig(cfg))
//	if err != nil { ... }
//	defer core.Close()
//
//	core.Classify("/work/report.txt", docsentry.LevelConfidential)
//	decision := core.EvaluateAction(docsentry.LevelConfidential, docsentry.ActionCopy)
//	core.OnOpenDocumentSetChanged(openPaths)
//	core.TrackCopiedContent(selection)
//
// The host links directly against the core for zero-subprocess overhead;
// UI concerns (menus, prompts, decoration) stay in the host.
package docsentry
