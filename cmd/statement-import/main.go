package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/statement-import/internal/importer"
	"github.com/zombor/statement-import/internal/logger"
	"github.com/zombor/statement-import/internal/statement"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	cfg, fs, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	scanner, err := cfg.newScanner()
	if err != nil {
		log.Fatal().Err(err).Str("scanner", cfg.Scanner).Msg("Failed to initialize scanner")
	}
	if scanner != nil {
		log.Info().Str("scanner", cfg.Scanner).Msg("Model-assisted PDF reading enabled")
		defer scanner.Close()
	}

	service := statement.NewService(importer.New(), scanner, log)

	if cfg.File != "" {
		if err := runImport(ctx, service, cfg.File, cfg.MIMEType); err != nil {
			log.Error().Err(err).Str("file", cfg.File).Msg("Import failed")
			os.Exit(1)
		}
		return
	}

	server := statement.NewServer(service, statement.Options{
		BasicAuth: statement.BasicAuth{
			Username: cfg.AuthUser,
			Password: cfg.AuthPass,
		},
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	}, log)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	log.Info().Str("address", fmt.Sprintf("http://localhost%s", addr)).Msg("Server started")
	if cfg.AuthUser != "" {
		log.Info().Str("user", cfg.AuthUser).Msg("Basic auth enabled")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down...")
}

// runImport imports a single file and prints the result to stdout
func runImport(ctx context.Context, service *statement.Service, path, mimeType string) error {
	log := logger.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading file info: %w", err)
	}

	result, err := service.Import(ctx, importer.File{
		Name:     info.Name(),
		MIMEType: mimeType,
		Size:     info.Size(),
		Body:     f,
	})
	if err != nil {
		return err
	}

	log.Debug().Int("transactions", len(result.Transactions)).Msg("Writing import result")

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
