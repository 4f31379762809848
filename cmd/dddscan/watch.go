package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/app"
	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/service"
)

const defaultWatchDebounce = 300 * time.Millisecond

func watchCmd() *cobra.Command {
	opts := &commonOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   constants.CommandWatch + " [path...]",
		Short: "Re-run the check whenever a PHP file changes",
		Long: `Run the check once, then again after every change to a PHP file under
the given paths. Unchanged files are served from the cache. Stop with Ctrl-C.

Examples:
  dddscan watch src/
  dddscan watch --debounce 1s src/ lib/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errorExit("no paths specified")
			}
			return runWatch(cmd, opts, args, debounce)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(cmd, "text")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultWatchDebounce,
		"Quiet period after a change before the check runs")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *commonOptions, args []string, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Progress bars would interleave with the repeated reports.
	opts.noProgress = true
	env, err := newRunEnv(cmd, opts, args, service.RequestCheck, service.NewOutputFormatter())
	if err != nil {
		return err
	}
	defer env.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errorExit("failed to start watcher: %v", err)
	}
	defer watcher.Close()

	for _, path := range args {
		filter := app.NewDirFilter(path, env.cfg.Analysis.ExcludePatterns, env.cfg.Analysis.RespectGitignore)
		if err := addWatchDirs(watcher, path, filter); err != nil {
			return errorExit("failed to watch %s: %v", path, err)
		}
	}

	run := func() {
		result, err := env.useCase.Check(ctx, env.req, env.format, env.out)
		env.writeMetrics()
		switch {
		case err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		case result.Passed:
			env.logger.Info("check passed", slog.String("run_id", result.RunID))
		}
	}

	run()
	return watchLoop(ctx, watcher, debounce, env.logger, run)
}

// watchLoop calls run once per burst of PHP file events until ctx is done.
// New directories are watched as they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, logger *slog.Logger, run func()) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("failed to watch directory", slog.String("dir", event.Name), slog.String("error", err.Error()))
					}
					continue
				}
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".php") || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			run()
		}
	}
}

// addWatchDirs watches root and every directory below it that filter keeps.
// Watching a file watches its directory.
func addWatchDirs(watcher *fsnotify.Watcher, root string, filter *app.DirFilter) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == ".git" || filter.Skipped(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
