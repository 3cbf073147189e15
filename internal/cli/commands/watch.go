package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate contract documents as they change",
		Long: `Watch a directory tree and re-validate any contract document
(.yaml, .yml, .json) that is created or written. Subdirectories
created while watching join the watch set. Runs until interrupted.`,
		Example: `  # Watch a contracts directory during editing
  dmsdk watch ./contracts

  # Longer settle time for editors that write in bursts
  dmsdk watch ./contracts --debounce 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 250*time.Millisecond, "Delay before re-validating after a change")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions, dir string) error {
	cmdCtx := NewCommandContext(cmd)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for contract changes (Ctrl+C to stop)\n", dir)

	watchLoop(ctx, cmd, cmdCtx, watcher, opts.Debounce)
	return nil
}

// watchDir recursively adds a directory to the watcher.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories ("." as the walk root stays in)
			if len(info.Name()) > 1 && info.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// watchLoop handles file system events until the context is canceled.
func watchLoop(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, watcher *fsnotify.Watcher, debounce time.Duration) {
	// Debounce timer, one per changed path
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only handle write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// New subdirectories join the watch set
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(watcher, event.Name); err != nil {
						cmdCtx.Logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if !isContractFile(event.Name) {
				continue
			}

			// Debounce re-validation per file
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			name := event.Name
			timers[name] = time.AfterFunc(debounce, func() {
				revalidate(cmd, cmdCtx, name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}

// isContractFile reports whether path looks like a contract document.
func isContractFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// revalidate imports one changed document and prints its status line.
func revalidate(cmd *cobra.Command, cmdCtx *CommandContext, path string) {
	w := cmd.OutOrStdout()
	stamp := time.Now().Format("15:04:05")

	tbl, _, err := loadTable(path, cmdCtx.Logger)
	if err != nil {
		fmt.Fprintf(w, "[%s] error: %v\n", stamp, err)
		return
	}

	diags := tbl.AllErrors()
	if len(diags) == 0 {
		fmt.Fprintf(w, "[%s] %s: ok (table %q, %d columns)\n", stamp, path, tbl.Name, len(tbl.Columns))
		return
	}

	fmt.Fprintf(w, "[%s] %s: %d diagnostics\n", stamp, path, len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", d.Error())
	}
}
