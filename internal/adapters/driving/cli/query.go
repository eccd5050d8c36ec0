package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

var (
	queryJSON         bool
	queryRetrieveOnly bool
	queryK            int
)

// snippetLength caps chunk previews in --retrieve-only output.
const snippetLength = 160

var queryCmd = pipeline(&cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Retrieves the chunks most similar to the question and asks the language
model to answer from them only. The chunk IDs used are listed as sources.

With --retrieve-only, the ranked chunks are printed and no model is called.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
})

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryRetrieveOnly, "retrieve-only", false, "print the ranked chunks without generating an answer")
	queryCmd.Flags().IntVarP(&queryK, "top-k", "k", domain.DefaultTopK, "number of chunks to retrieve with --retrieve-only")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errNoQuery
	}

	question := strings.Join(args, " ")
	ctx := commandContext(cmd)

	if queryRetrieveOnly {
		results, err := queryService.Retrieve(ctx, question, queryK)
		if err != nil {
			return fmt.Errorf("retrieve failed: %w", err)
		}
		if queryJSON {
			return printJSON(cmd, results)
		}
		printResults(cmd, results)
		return nil
	}

	answer, err := queryService.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if queryJSON {
		if answer.Sources == nil {
			answer.Sources = []string{}
		}
		return printJSON(cmd, answer)
	}

	cmd.Println(strings.TrimSpace(answer.Text))
	cmd.Println()
	cmd.Println("Sources:")
	for _, src := range answer.Sources {
		cmd.Printf("  - %s\n", src)
	}
	return nil
}

func printResults(cmd *cobra.Command, results []domain.RetrievalResult) {
	if len(results) == 0 {
		cmd.Println("No chunks found. Ingest documents first.")
		return
	}
	for i, r := range results {
		id := r.ChunkID
		if id == "" {
			id = domain.UnknownSource
		}
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, id, r.Score)
		cmd.Printf("      %s\n", snippet(r.Content))
	}
}

// snippet flattens whitespace and truncates on a rune boundary.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= snippetLength {
		return s
	}
	return string(runes[:snippetLength]) + "..."
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
