package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/httpapi"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

var serveAddr string

var serveCmd = pipeline(&cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the HTTP API until interrupted:

  POST /upload-pdf/   multipart "files"
  POST /reset-db/
  POST /query-pdf/    query_text as query parameter, form field or JSON
  GET  /healthz

Example:
  pdfrag serve --addr :8000
  curl -F files=@rules.pdf http://localhost:8000/upload-pdf/
  curl -X POST 'http://localhost:8000/query-pdf/?query_text=How+many+players'`,
	Args: cobra.NoArgs,
	RunE: runServe,
})

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := domain.DefaultAppSettings().Server
	if settingsService != nil {
		app, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings = app.Server
	}
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	server, err := httpapi.New(settings, httpapi.Dependencies{
		Ingest: ingestService,
		Index:  indexService,
		Query:  queryService,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", server.Addr())
	return server.Run(commandContext(cmd))
}
