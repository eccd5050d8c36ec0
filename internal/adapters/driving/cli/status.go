package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = pipeline(&cobra.Command{
	Use:   "status",
	Short: "Show index size and configured backends",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
})

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errNoIndex
	}

	stats, err := indexService.Stats(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	cmd.Printf("Index:     %s, %d chunks\n", stats.Backend, stats.Entries)

	if settingsService == nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Embedding: %s (%s)\n", settings.Embedding.Provider, settings.Embedding.Model)
	cmd.Printf("LLM:       %s (%s)\n", settings.LLM.Provider, settings.LLM.Model)
	return nil
}
