// Package cli provides the pdfrag command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Options are the global flags handed to the Bootstrapper.
type Options struct {
	// ConfigDir holds config.toml and the prompts directory.
	// Empty means ~/.pdfrag.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services are the driving ports the commands call.
type Services struct {
	Ingest   driving.IngestService
	Index    driving.IndexService
	Query    driving.QueryService
	Settings driving.SettingsService

	// Close releases the AI clients and the index. May be nil.
	Close func() error
}

// Bootstrapper builds services once the global flags are known.
type Bootstrapper interface {
	// Settings returns the settings service alone. Used by commands that
	// must work while the AI backends are unreachable.
	Settings(opts Options) (driving.SettingsService, error)

	// Services builds the full pipeline.
	Services(ctx context.Context, opts Options) (*Services, error)
}

// needsPipeline marks commands that require the full pipeline.
const needsPipeline = "pdfrag/needs-pipeline"

var (
	configDir string
	verbose   bool

	bootstrapper Bootstrapper
	closeFn      func() error

	ingestService   driving.IngestService
	indexService    driving.IndexService
	queryService    driving.QueryService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Ask questions about your PDFs",
	Long: `pdfrag indexes PDF documents into a local vector index and answers
questions about them with a language model, citing the chunks it used.

Documents are split into overlapping chunks, each identified as
source:page:index, embedded and stored once. Questions retrieve the most
similar chunks and the model answers from that context only.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pdfrag)")

	// cobra's Print helpers default to stderr; answers and JSON belong on stdout.
	rootCmd.SetOut(os.Stdout)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrapper installs the factory used to build services lazily.
func SetBootstrapper(b Bootstrapper) {
	bootstrapper = b
}

// SetServices injects ready-made services, bypassing the Bootstrapper.
func SetServices(s *Services) {
	if s == nil {
		ingestService, indexService, queryService, settingsService = nil, nil, nil, nil
		closeFn = nil
		return
	}
	ingestService = s.Ingest
	indexService = s.Index
	queryService = s.Query
	if s.Settings != nil {
		settingsService = s.Settings
	}
	closeFn = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeFn != nil {
		if cerr := closeFn(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closeFn = nil
	}
	return err
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrapper == nil {
		return nil
	}
	opts := Options{ConfigDir: configDir, Verbose: verbose}

	if settingsService == nil {
		s, err := bootstrapper.Settings(opts)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		settingsService = s
	}

	if cmd.Annotations[needsPipeline] == "" || queryService != nil {
		return nil
	}
	services, err := bootstrapper.Services(cmd.Context(), opts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

// pipeline marks a command as requiring the full pipeline.
func pipeline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsPipeline] = "true"
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var (
	errNoIngest   = errors.New("ingest service not configured")
	errNoIndex    = errors.New("index service not configured")
	errNoQuery    = errors.New("query service not configured")
	errNoSettings = errors.New("settings service not configured")
)
