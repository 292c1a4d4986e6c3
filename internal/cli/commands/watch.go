package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Recheck definitions whenever they change",
		Long: `Check definitions once, then again every time one of the files is
written. Bursts of writes are collapsed into a single run after the
debounce interval. Stop with Ctrl+C.`,
		Example: `  # Watch the configured inputs
  uomc watch

  # Watch with a longer debounce
  uomc watch --debounce 500ms si.uom`,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", 0, "Delay before rechecking after a change (default: 100ms)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	files, err := cc.Inputs(args)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f == stdinName {
			return fmt.Errorf("cannot watch stdin")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recheck := func() {
		res, err := cc.Compile(files, nil)
		if rerr := cc.Renderer.RenderDiagnostics(res.Diagnostics); rerr != nil {
			cc.Logger.Warn("failed to render diagnostics", "error", rerr)
		}
		if err != nil {
			cc.Renderer.Error(fmt.Sprintf("Error: %v", err))
		}
	}
	recheck()

	w, err := newFileWatcher(files, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	cc.Renderer.Muted(fmt.Sprintf("watching %d file(s), press Ctrl+C to stop", len(files)))
	return w.Run(ctx, cc.Cfg.Watch.Debounce, func() {
		cc.Renderer.Println()
		recheck()
	})
}

// fileWatcher reports writes to a fixed set of files. It watches their
// directories so that editors replacing a file are still seen.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	targets map[string]bool
	logger  *slog.Logger
}

func newFileWatcher(files []string, logger *slog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &fileWatcher{watcher: watcher, targets: make(map[string]bool), logger: logger}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", "dir", dir)
	}
	return w, nil
}

// Close stops watching.
func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once per burst of changes, debounce after the last
// one. It blocks until ctx is done.
func (w *fileWatcher) Run(ctx context.Context, debounce time.Duration, onChange func()) error {
	changes := make(chan struct{}, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.watchLoop(ctx, changes) })
	g.Go(func() error { return debounceLoop(ctx, changes, debounce, onChange) })
	return g.Wait()
}

func (w *fileWatcher) watchLoop(ctx context.Context, changes chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.targets[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			select {
			case changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func debounceLoop(ctx context.Context, changes <-chan struct{}, debounce time.Duration, onChange func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			timer.Reset(debounce)
		case <-timer.C:
			onChange()
		}
	}
}
