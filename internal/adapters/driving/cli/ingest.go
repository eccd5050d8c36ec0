package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

var (
	ingestWatchDir string
	ingestJSON     bool
)

var ingestCmd = pipeline(&cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add documents to the index",
	Long: `Extracts the text of each file, splits it into chunks and adds the
chunks that are not indexed yet. Re-ingesting a file adds nothing.
Indexed chunks are never updated: after editing a file that was already
ingested, run 'pdfrag reset' and ingest again to pick up the new content.

PDF files need pdftotext (poppler-utils). Word (.docx), HTML, plain text
and Markdown files are read directly.

With --watch, the directory is ingested and then watched until
interrupted. New files are ingested as they appear; a rewritten file only
contributes chunks whose IDs are not indexed yet.`,
	RunE: runIngest,
})

func init() {
	ingestCmd.Flags().StringVarP(&ingestWatchDir, "watch", "w", "", "watch a directory and ingest new files")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNoIngest
	}
	if len(args) == 0 && ingestWatchDir == "" {
		return errors.New("requires at least one file, or --watch DIR")
	}

	ctx := commandContext(cmd)

	if len(args) > 0 {
		report, err := ingestService.IngestPaths(ctx, args)
		if report != nil {
			if perr := printReport(cmd, report); perr != nil {
				return perr
			}
		}
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	if ingestWatchDir != "" {
		return watchAndIngest(ctx, cmd, ingestWatchDir)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) error {
	if ingestJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d (extracted %d)\n", report.Documents, report.Extracted)
	cmd.Printf("Chunks:    %d (added %d)\n", report.Chunks, report.Added)
	for _, f := range report.Failures {
		cmd.Printf("  failed: %s: %s\n", f.Source, f.Error)
	}
	return nil
}
