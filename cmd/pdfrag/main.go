// Command pdfrag indexes PDF documents and answers questions about them.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/cli"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A .env in the working directory may hold PDFRAG_* overrides and API keys.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrapper(&bootstrapper{})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
