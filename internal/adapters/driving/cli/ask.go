package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/tui"
)

var askCmd = pipeline(&cobra.Command{
	Use:   "ask",
	Short: "Ask questions interactively",
	Long: `Opens an interactive session for asking questions about the indexed
documents. Each answer lists the chunks it was built from.

Controls:
  Enter        - Ask
  PgUp/PgDn    - Scroll answers
  Ctrl+L       - Clear the conversation
  Esc, Ctrl+C  - Quit`,
	Args: cobra.NoArgs,
	RunE: runAsk,
})

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in ask session: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Query: queryService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
