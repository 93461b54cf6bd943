package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/snapgpt/snapgpt/constants/lipgloss"
	"github.com/snapgpt/snapgpt/snapshot"
	"github.com/snapgpt/snapgpt/utils"
)

var previewTheme string

// previewCmd renders one file section of an existing snapshot with syntax
// highlighting, or lists the paths the snapshot contains.
var previewCmd = &cobra.Command{
	Use:   "preview [path]",
	Short: "Preview a file section of an existing snapshot",
	Long: `Parse the snapshot file and print a single file section with syntax
highlighting. When no path is given, the paths contained in the snapshot
are listed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handlePreviewCommand(args)
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewTheme, "theme", "dracula", "Chroma color theme for highlighting")
	rootCmd.AddCommand(previewCmd)
}

func handlePreviewCommand(args []string) error {
	data, err := os.ReadFile(outputFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot %q: %w", outputFile, err)
	}
	artifact, err := snapshot.ParseArtifact(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot %q: %w", outputFile, err)
	}

	if len(args) == 0 {
		paths := artifact.Paths()
		sort.Strings(paths)
		fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Snapshot contains %d files:", len(paths))))
		for _, path := range paths {
			fmt.Println("  " + path)
		}
		return nil
	}

	path := args[0]
	section, ok := artifact.Section(path)
	if !ok {
		return fmt.Errorf("path %q not found in snapshot", path)
	}

	fmt.Println(lipgloss.BlueSky.Render(snapshot.MarkerLine(path)))
	return utils.HighlightToStdout(section, utils.DetectLanguage(path), previewTheme)
}
