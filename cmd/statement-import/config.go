package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/statement-import/internal/scanning"
)

// Config holds the command line and environment settings
type Config struct {
	Port        int `validate:"min=1,max=65535"`
	File        string
	MIMEType    string
	Scanner     string `validate:"oneof=none gemini ollama"`
	GeminiKey   string `validate:"required_if=Scanner gemini"`
	GeminiModel string
	OllamaURL   string `validate:"omitempty,url"`
	OllamaModel string
	AuthUser    string `validate:"required_with=AuthPass"`
	AuthPass    string `validate:"required_with=AuthUser"`
	MaxUploadMB int    `validate:"min=1,max=1024"`
	LogLevel    string `validate:"oneof=trace debug info warn error"`
	Version     bool
}

// parseConfig reads flags and STATEMENT_IMPORT_* environment variables
func parseConfig(args []string) (Config, *ff.FlagSet, error) {
	var cfg Config

	fs := ff.NewFlagSet("statement-import")
	fs.IntVar(&cfg.Port, 0, "port", 8080, "HTTP server port")
	fs.StringVar(&cfg.File, 0, "file", "", "Import a single file, print the result as JSON and exit")
	fs.StringVar(&cfg.MIMEType, 0, "mime", "", "MIME type of --file when its name has no recognizable extension")
	fs.StringVar(&cfg.Scanner, 0, "scanner", "none", "Model used for PDFs without readable transactions: 'none', 'gemini' or 'ollama'")
	fs.StringVar(&cfg.GeminiKey, 0, "gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
	fs.StringVar(&cfg.GeminiModel, 0, "gemini-model", "gemini-2.5-flash", "Google Gemini model name")
	fs.StringVar(&cfg.OllamaURL, 0, "ollama-url", "http://localhost:11434", "Ollama API base URL")
	fs.StringVar(&cfg.OllamaModel, 0, "ollama-model", "llava", "Ollama model name")
	fs.StringVar(&cfg.AuthUser, 0, "auth-user", "", "Basic auth username (optional)")
	fs.StringVar(&cfg.AuthPass, 0, "auth-pass", "", "Basic auth password (optional)")
	fs.IntVar(&cfg.MaxUploadMB, 0, "max-upload-mb", 20, "Maximum upload size in megabytes")
	fs.StringVar(&cfg.LogLevel, 0, "log-level", "info", "Log level: trace, debug, info, warn or error")
	fs.BoolVar(&cfg.Version, 0, "version", "Show version information")

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("STATEMENT_IMPORT"),
	); err != nil {
		return cfg, fs, err
	}

	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, fs, nil
}

// validate checks the settings needed to run
func (c Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// newScanner builds the configured scanner, or nil when scanning is disabled
func (c Config) newScanner() (scanning.Scanner, error) {
	switch c.Scanner {
	case "gemini":
		return scanning.NewGemini(c.GeminiKey, c.GeminiModel)
	case "ollama":
		return scanning.NewOllama(c.OllamaURL, c.OllamaModel)
	default:
		return nil, nil
	}
}
