package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/snapgpt/snapgpt/constants/lipgloss"
	"github.com/snapgpt/snapgpt/utils"
)

// resetIndexCmd represents the reset-index command
var resetIndexCmd = &cobra.Command{
	Use:   "reset-index",
	Short: "Reset the persisted snapshot index",
	Long: `The 'reset-index' command removes the '.snapgpt' state directory,
including the content-hash index. The next run performs a full rebuild of
the snapshot. Use this when the index is stale or corrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")
		return handleResetIndexCommand(cmd, force, stats)
	},
}

func init() {
	resetIndexCmd.Flags().BoolP("force", "f", false, "Reset without confirmation")
	resetIndexCmd.Flags().BoolP("stats", "s", false, "Show index statistics instead of resetting")

	rootCmd.AddCommand(resetIndexCmd)
}

func handleResetIndexCommand(cmd *cobra.Command, force bool, showStats bool) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	store := deps.Updater.Store()

	if showStats {
		if !store.Exists() {
			fmt.Println(lipgloss.Gray.Render("No index found"))
			return nil
		}
		idx, loadErr := store.Load()
		if loadErr != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", loadErr)))
		}
		stats := lipgloss.Info.Render("Index Statistics") + "\n"
		stats += fmt.Sprintf("Index File: %s\n", store.Path())
		stats += fmt.Sprintf("Tracked Files: %d", len(idx.Entries))
		if !idx.GeneratedAt.IsZero() {
			stats += fmt.Sprintf("\nGenerated At: %s", idx.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
		if idx.ArtifactPath != "" {
			stats += fmt.Sprintf("\nSnapshot File: %s", idx.ArtifactPath)
		}
		fmt.Println(lipgloss.BoxStyle.Render(stats))
		return nil
	}

	if !store.Exists() {
		fmt.Println(lipgloss.Gray.Render("No index to reset."))
		return nil
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		ok, promptErr := utils.ConfirmPrompt("Are you sure you want to reset the snapshot index?", reader)
		if promptErr != nil {
			return promptErr
		}
		if !ok {
			fmt.Println(lipgloss.Yellow.Render("Index reset cancelled."))
			return nil
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)
	spinnerInstance, _ := spinner.Start("Resetting snapshot index...")

	if err := store.Clear(); err != nil {
		spinnerInstance.Stop()
		fmt.Print("\r")
		return fmt.Errorf("error resetting index: %w", err)
	}

	spinnerInstance.Stop()
	fmt.Print("\r")
	fmt.Println(lipgloss.Green.Render("✓ Snapshot index has been successfully reset!"))
	return nil
}
