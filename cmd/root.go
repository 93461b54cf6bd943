package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/snapgpt/snapgpt/config"
	"github.com/snapgpt/snapgpt/constants/lipgloss"
	"github.com/snapgpt/snapgpt/file_scanner"
	"github.com/snapgpt/snapgpt/snapshot"
	"github.com/snapgpt/snapgpt/utils"
)

var (
	directories []string
	listedFiles []string
	outputFile  string
	maxSizeMB   float64
	maxDepth    int
	quiet       bool
	noCopy      bool
	noOpen      bool

	setEditorFlag      string
	setExtensionsFlag  []string
	setExcludeDirsFlag []string
)

var rootCmd = &cobra.Command{
	Use:   "snapgpt",
	Short: "Create a code snapshot optimized for LLM context, kept incrementally up to date.",
	Long: `snapgpt concatenates your codebase into a single text snapshot with a
directory-tree preamble, ready to paste into an LLM conversation.

Runs are incremental: a persisted content-hash index detects which files
changed since the last run, and only their sections of the snapshot are
rewritten. Use the 'watch' subcommand to keep the snapshot continuously
up to date while you work.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if handled, err := handleConfigMutators(); handled {
			return err
		}

		deps, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		if err := confirmScanTargets(deps); err != nil {
			return err
		}

		res, err := runSnapshotCycle(deps)
		if err != nil {
			return err
		}
		reportResult(res)
		finishCycle(deps)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)

	rootCmd.PersistentFlags().StringSliceVarP(&directories, "directories", "d", []string{"."}, "Directories to scan; the first is the project root")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "full_code_snapshot.txt", "Output file path for the snapshot")
	rootCmd.PersistentFlags().Float64Var(&maxSizeMB, "max-size", 0, "Maximum file size in MB (0 for no limit)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth (0 for no limit)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.Flags().StringSliceVarP(&listedFiles, "files", "f", nil, "Specific files to snapshot instead of scanning directories")
	rootCmd.Flags().BoolVar(&noCopy, "no-copy", false, "Do not copy the snapshot to the clipboard")
	rootCmd.Flags().BoolVar(&noOpen, "no-open", false, "Do not open the snapshot in an editor")

	rootCmd.Flags().StringVar(&setEditorFlag, "set-default-editor", "", "Set the default editor (cursor|code|windsurf|zed|xcode) and exit")
	rootCmd.Flags().StringSliceVar(&setExtensionsFlag, "set-default-extensions", nil, "Set the default file extensions and exit")
	rootCmd.Flags().StringSliceVar(&setExcludeDirsFlag, "set-default-exclude-dirs", nil, "Set the default excluded directories and exit")
}

// RootDependencies wires together the collaborators every command needs.
type RootDependencies struct {
	Config      *config.Config
	Scanner     *file_scanner.Scanner
	Updater     *snapshot.Updater
	ProjectRoot string
}

// handleRootCommand loads configuration and constructs the scanner and
// updater for the requested project root and output path.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cfg, err := config.LoadConfigs(cmd.Root())
	if err != nil {
		return nil, err
	}

	maxSize := int64(0)
	if maxSizeMB > 0 {
		maxSize = int64(maxSizeMB * 1_000_000)
	}

	scanner := file_scanner.NewScanner(file_scanner.ScanConfig{
		Roots:       directories,
		Files:       listedFiles,
		Extensions:  cfg.FileExtensions,
		ExcludeDirs: cfg.ExcludeDirs,
		MaxFileSize: maxSize,
		MaxDepth:    maxDepth,
	})

	projectRoot, err := scanner.ProjectRoot()
	if err != nil {
		return nil, err
	}
	outputPath, err := filepath.Abs(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	return &RootDependencies{
		Config:      cfg,
		Scanner:     scanner,
		Updater:     snapshot.NewUpdater(projectRoot, outputPath),
		ProjectRoot: projectRoot,
	}, nil
}

// handleConfigMutators services the --set-default-* flags, which persist a
// setting and exit without taking a snapshot.
func handleConfigMutators() (bool, error) {
	switch {
	case setEditorFlag != "":
		if err := config.SetDefaultEditor(setEditorFlag); err != nil {
			return true, err
		}
		fmt.Println(lipgloss.Green.Render("Default editor set to: " + setEditorFlag))
		return true, nil
	case len(setExtensionsFlag) > 0:
		if err := config.SetDefaultExtensions(setExtensionsFlag); err != nil {
			return true, err
		}
		fmt.Println(lipgloss.Green.Render("Default file extensions updated"))
		return true, nil
	case len(setExcludeDirsFlag) > 0:
		if err := config.SetDefaultExcludeDirs(setExcludeDirsFlag); err != nil {
			return true, err
		}
		fmt.Println(lipgloss.Green.Render("Default excluded directories updated"))
		return true, nil
	}
	return false, nil
}

// confirmScanTargets warns before snapshotting system directories or trees
// outside any git repository. Quiet runs skip the interactive prompt.
func confirmScanTargets(deps *RootDependencies) error {
	if quiet {
		return nil
	}
	reader := bufio.NewReader(os.Stdin)

	for _, dir := range directories {
		if utils.IsSystemDirectory(dir) {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %q appears to be a system directory.", dir)))
			ok, err := utils.ConfirmPrompt("Do you want to continue?", reader)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("cancelled")
			}
		}
	}

	if !utils.IsGitRepository(deps.ProjectRoot) {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %q is not part of a git repository.", deps.ProjectRoot)))
	}
	return nil
}

// runSnapshotCycle enumerates the project and executes one updater cycle.
func runSnapshotCycle(deps *RootDependencies) (*snapshot.Result, error) {
	var spinner *pterm.SpinnerPrinter
	if !quiet {
		s := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100).WithRemoveWhenDone(true)
		spinner, _ = s.Start("Scanning project...")
	}

	files, treeText, err := deps.Scanner.Scan()
	if err != nil {
		stopSpinner(spinner)
		return nil, err
	}

	if spinner != nil {
		spinner.UpdateText("Updating snapshot...")
	}
	res, err := deps.Updater.RunCycle(files, treeText)
	stopSpinner(spinner)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func stopSpinner(spinner *pterm.SpinnerPrinter) {
	if spinner != nil {
		spinner.Stop()
		fmt.Print("\r")
	}
}

// reportResult prints the cycle outcome. Degraded paths (corrupt index,
// forced rebuilds, unreadable files) are styled as warnings so they stay
// distinguishable from routine unchanged-file skips.
func reportResult(res *snapshot.Result) {
	if quiet {
		return
	}
	for _, warning := range res.Warnings {
		fmt.Println(lipgloss.Yellow.Render("Warning: " + warning))
	}
	switch res.Mode {
	case snapshot.ModeRebuild:
		total := res.Added + res.Modified + res.Unchanged
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔ Full rebuild: %d files written", total)))
	case snapshot.ModePatch:
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf(
			"✔ Patched snapshot: %d added, %d modified, %d removed (%d unchanged)",
			res.Added, res.Modified, res.Removed, res.Unchanged)))
	case snapshot.ModeNoop:
		fmt.Println(lipgloss.Gray.Render("Snapshot already up to date"))
	}
}

// finishCycle runs the post-snapshot conveniences: clipboard copy and
// editor launch. Both are best-effort and never fail the run.
func finishCycle(deps *RootDependencies) {
	outputPath := deps.Updater.OutputPath()

	if deps.Config.AutoCopyToClipboard && !noCopy {
		if data, err := os.ReadFile(outputPath); err == nil {
			if err := utils.CopyToClipboard(string(data)); err != nil && !quiet {
				fmt.Println(lipgloss.Yellow.Render("Warning: " + err.Error()))
			}
		}
	}

	if !noOpen {
		if err := utils.OpenInEditor(outputPath, deps.Config.DefaultEditor); err != nil && !quiet {
			fmt.Println(lipgloss.Yellow.Render("Warning: " + err.Error()))
		}
	}
}
