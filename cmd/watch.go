package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snapgpt/snapgpt/constants/lipgloss"
	"github.com/snapgpt/snapgpt/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and keep the snapshot updated as files change.",
	Long: `Watch the project root for file-system changes and re-run the
incremental snapshot cycle whenever a change settles. Events for a path are
debounced (default 1s) so rapid saves trigger a single update.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		if err := confirmScanTargets(deps); err != nil {
			return err
		}
		return handleWatchCommand(deps)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func handleWatchCommand(deps *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial cycle so the watcher starts from a current snapshot.
	res, err := runSnapshotCycle(deps)
	if err != nil {
		return err
	}
	reportResult(res)
	finishCycle(deps)

	w, err := watcher.New(watcher.Config{
		Root:     deps.ProjectRoot,
		Debounce: time.Duration(deps.Config.Watch.DebounceMs) * time.Millisecond,
		IsIncluded: func(absPath string) bool {
			// The engine's own writes must not re-trigger cycles.
			out := deps.Updater.OutputPath()
			if absPath == out || absPath == out+".tmp" {
				return false
			}
			return deps.Scanner.IsIncluded(absPath)
		},
		OnSettled: func(absPath string) {
			rel, relErr := filepath.Rel(deps.ProjectRoot, absPath)
			if relErr != nil {
				rel = absPath
			}
			if !quiet {
				fmt.Println(lipgloss.BlueSky.Render("[watch] change settled: " + rel))
			}
			res, cycleErr := runSnapshotCycle(deps)
			if cycleErr != nil {
				if !quiet {
					fmt.Println(lipgloss.Red.Render(fmt.Sprintf("[watch] snapshot update failed: %v", cycleErr)))
				}
				return
			}
			reportResult(res)
		},
	})
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Println(lipgloss.Green.Render("[watch] Watching for file changes. Press Ctrl+C to stop."))
	}
	if err := w.Run(ctx); err != nil {
		return err
	}
	if !quiet {
		fmt.Println(lipgloss.Yellow.Render("[watch] Stopping..."))
	}
	return nil
}
