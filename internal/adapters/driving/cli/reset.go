package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var resetForce bool

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var resetCmd = pipeline(&cobra.Command{
	Use:   "reset",
	Short: "Delete the whole index",
	Long: `Deletes every indexed chunk. The next ingest starts from an empty index.

Asks for confirmation on a terminal. Without a terminal, --force is required.`,
	Args: cobra.NoArgs,
	RunE: runReset,
})

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errNoIndex
	}

	if !resetForce {
		if !stdinIsTerminal() {
			return errors.New("refusing to reset without --force when not attached to a terminal")
		}
		cmd.Print("Delete the entire index? [y/N]: ")
		answer := readLine(bufio.NewReader(cmd.InOrStdin()))
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := indexService.Reset(commandContext(cmd)); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	cmd.Println("Database reset successfully.")
	return nil
}
