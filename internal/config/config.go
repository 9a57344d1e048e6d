package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/lodestar/internal/ingest"
	"github.com/five82/lodestar/internal/logformat"
)

// Config captures the ingest and logging settings lodestar needs.
type Config struct {
	MaxLines       int
	ChunkSize      int
	UserAgent      string
	RequestTimeout time.Duration
	Cookie         string
	Authorization  string
	LogFile        string
	DefaultFormat  logformat.Format
}

const (
	defaultConfigPath = "~/.config/lodestar/config.toml"
	defaultLogFile    = "~/.local/state/lodestar/lodestar.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MaxLines:  ingest.DefaultMaxLines,
		ChunkSize: ingest.DefaultChunkSize,
		LogFile:   mustExpand(defaultLogFile),
	}
}

// Load reads the config at path, or ~/.config/lodestar/config.toml when path
// is empty. A missing file yields Default().
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		MaxLines       int    `toml:"max_lines"`
		ChunkSize      int    `toml:"chunk_size"`
		UserAgent      string `toml:"user_agent"`
		RequestTimeout int    `toml:"request_timeout"`
		Cookie         string `toml:"cookie"`
		Authorization  string `toml:"authorization"`
		LogFile        string `toml:"log_file"`
		DefaultFormat  string `toml:"default_format"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.MaxLines < 0 || raw.ChunkSize < 0 || raw.RequestTimeout < 0 {
		return Config{}, fmt.Errorf("parse config: max_lines, chunk_size and request_timeout must not be negative")
	}
	if raw.MaxLines > 0 {
		cfg.MaxLines = raw.MaxLines
	}
	if raw.ChunkSize > 0 {
		cfg.ChunkSize = raw.ChunkSize
	}
	cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	cfg.UserAgent = strings.TrimSpace(raw.UserAgent)
	cfg.Cookie = strings.TrimSpace(raw.Cookie)
	cfg.Authorization = strings.TrimSpace(raw.Authorization)

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	cfg.DefaultFormat, err = logformat.Parse(raw.DefaultFormat)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// DownloaderOptions maps the config onto ingest options.
func (c Config) DownloaderOptions() ingest.Options {
	return ingest.Options{
		MaxLines:      c.MaxLines,
		ChunkSize:     c.ChunkSize,
		UserAgent:     c.UserAgent,
		HeaderTimeout: c.RequestTimeout,
		Cookie:        c.Cookie,
		Authorization: c.Authorization,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
