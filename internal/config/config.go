// Package config resolves runtime settings from defaults, an optional YAML
// file and APPLETGEN_* environment variables. Command-line flags are applied
// last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/appletgen/internal/assembler"
	"github.com/alexanderramin/appletgen/internal/llm"
	"github.com/alexanderramin/appletgen/internal/synth"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "appletgen.yaml"

// Log modes accepted by logger.New.
const (
	LogDev   = "dev"
	LogProd  = "prod"
	LogQuiet = "quiet"
)

type Config struct {
	LLM     llm.LLMConfig `yaml:"llm"`
	Synth   SynthConfig   `yaml:"synth"`
	Output  OutputConfig  `yaml:"output"`
	Public  PublicConfig  `yaml:"public"`
	History HistoryConfig `yaml:"history"`
	LogMode string        `yaml:"log_mode"`
}

type SynthConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// OutputConfig locates the assembled artifact.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	SlugFile string `yaml:"slug_file"`
}

// PublicConfig locates the published site. An empty Dir disables the
// deploy stage.
type PublicConfig struct {
	Dir           string `yaml:"dir"`
	LibrarySource string `yaml:"library_source"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LLM:   llm.DefaultConfig(),
		Synth: SynthConfig{MaxAttempts: synth.DefaultMaxAttempts},
		Output: OutputConfig{
			Dir:      "output",
			SlugFile: assembler.DefaultSlugFile,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		LogMode: LogDev,
	}
}

// DefaultHistoryPath returns ~/.appletgen/history.db, or a path relative to
// the working directory when the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".appletgen", "history.db")
	}
	return filepath.Join(home, ".appletgen", "history.db")
}

// Load builds the effective configuration. An explicit path must exist;
// without one, DefaultFile is used when present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	cfg.LLM.ApplyProviderDefaults()

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg. Unknown keys are rejected so typos surface.
func decode(data []byte, cfg *Config) error {
	if len(data) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return nil
}

// ApplyEnv overlays APPLETGEN_* variables onto cfg, including the LLM ones.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("APPLETGEN_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("APPLETGEN_SLUG_FILE"); v != "" {
		cfg.Output.SlugFile = v
	}
	if v := os.Getenv("APPLETGEN_PUBLIC_DIR"); v != "" {
		cfg.Public.Dir = v
	}
	if v := os.Getenv("APPLETGEN_ZDOG_LIBRARY"); v != "" {
		cfg.Public.LibrarySource = v
	}
	if v := os.Getenv("APPLETGEN_HISTORY_DB"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("APPLETGEN_HISTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("APPLETGEN_HISTORY: %w", err)
		}
		cfg.History.Enabled = b
	}
	if v := os.Getenv("APPLETGEN_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("APPLETGEN_SYNTH_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APPLETGEN_SYNTH_MAX_ATTEMPTS: %w", err)
		}
		cfg.Synth.MaxAttempts = n
	}
	llm.ApplyEnv(&cfg.LLM)
	return nil
}

// Validate checks the settings every command relies on.
func (c Config) Validate() error {
	var errs []error
	switch c.LogMode {
	case LogDev, LogProd, LogQuiet:
	default:
		errs = append(errs, fmt.Errorf("log_mode %q must be dev, prod or quiet", c.LogMode))
	}
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q: %w", c.LLM.Provider, llm.ErrUnknownProvider))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, errors.New("llm.max_retries must be >= 0"))
	}
	if c.Synth.MaxAttempts < 1 {
		errs = append(errs, errors.New("synth.max_attempts must be >= 1"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	return errors.Join(errs...)
}
