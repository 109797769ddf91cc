package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docsentry/docsentry"
	"github.com/docsentry/docsentry/internal/config"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor [root...]",
	Short: "Run the protection monitor over one or more directories",
	Long: "Treats the files under each root as the open-document set and keeps\n" +
		"enhanced protection in step with it: while any confidential file is\n" +
		"present, the clipboard guard and the duplication guard run.\n\n" +
		"Editor hosts embed the core directly and drive it from their own\n" +
		"open-document events; this command is the standalone equivalent.\n" +
		"Blocks until interrupted.",
	Args: cobra.ArbitraryArgs,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.WatchRoots
	}
	if len(roots) == 0 {
		return fmt.Errorf("no roots: pass directories as arguments or set watch_roots in the config")
	}

	opts := []docsentry.Option{
		docsentry.WithConfig(cfg),
		docsentry.WithWatchRoots(roots...),
	}
	core, err := docsentry.New(opts...)
	if err != nil {
		return err
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rescan := func() {
		core.OnOpenDocumentSetChanged(listFiles(roots))
	}

	// Filesystem events trigger an immediate rescan so protection follows
	// a newly created confidential file without waiting out the interval.
	// The ticker remains the fallback when the watcher cannot be set up.
	events := watchRoots(ctx, roots)

	fmt.Fprintf(os.Stderr, "docsentry: monitoring %d root(s), rescan every %s\n", len(roots), cfg.RescanInterval())
	rescan()

	ticker := time.NewTicker(cfg.RescanInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "docsentry: monitor stopping\n")
			return nil
		case <-ticker.C:
			rescan()
		case <-events:
			rescan()
		}
	}
}

// watchRoots subscribes to filesystem changes under the roots and signals
// each batch of events on the returned channel. Newly created directories
// are added to the watch; fsnotify is not recursive. Returns a nil channel
// when the watcher cannot be created, leaving the caller interval-only.
func watchRoots(ctx context.Context, roots []string) <-chan struct{} {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docsentry: filesystem watcher unavailable, rescanning on interval only: %v\n", err)
		return nil
	}
	for _, root := range roots {
		if err := watcher.Add(root); err != nil {
			fmt.Fprintf(os.Stderr, "docsentry: watch %s: %v\n", root, err)
		}
	}

	events := make(chan struct{}, 1)
	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							fmt.Fprintf(os.Stderr, "docsentry: watch %s: %v\n", event.Name, err)
						}
					}
				}
				select {
				case events <- struct{}{}:
				default: // a rescan is already pending
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return events
}

// listFiles walks the roots and returns every regular file. Walk errors
// are swallowed per entry; a vanished root contributes nothing.
func listFiles(roots []string) []string {
	var files []string
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}
