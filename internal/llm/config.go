package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskSynthesize is the first request for a record.
	TaskSynthesize TaskType = "synthesize"
	// TaskRepair is a follow-up request carrying a correction instruction.
	TaskRepair TaskType = "repair"
)

// Providers accepted by NewClient.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	DefaultOpenAIEndpoint = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-4o-2024-08-06"
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama3.2"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider     string                  `yaml:"provider"`
	LogCalls     bool                    `yaml:"log_calls"`
	Endpoint     string                  `yaml:"endpoint"`
	Model        string                  `yaml:"model"`
	APIKey       string                  `yaml:"-"`
	TimeoutMs    int                     `yaml:"timeout_ms"`
	MaxRetries   int                     `yaml:"max_retries"`
	RetryDelayMs int                     `yaml:"retry_delay_ms"`
	Tasks        map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultConfig returns an LLMConfig targeting the OpenAI chat API.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:     ProviderOpenAI,
		LogCalls:     true,
		Endpoint:     DefaultOpenAIEndpoint,
		Model:        DefaultOpenAIModel,
		TimeoutMs:    120000,
		MaxRetries:   2,
		RetryDelayMs: 1000,
		Tasks: map[TaskType]TaskConfig{
			TaskSynthesize: {Temperature: 0.7, MaxTokens: 4096, TimeoutMs: 120000},
			TaskRepair:     {Temperature: 0.2, MaxTokens: 4096, TimeoutMs: 90000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays APPLETGEN_LLM_* variables and OPENAI_API_KEY onto cfg.
// Switching the provider to ollama also switches an untouched OpenAI
// endpoint and model to the Ollama defaults.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("APPLETGEN_LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("APPLETGEN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("APPLETGEN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("APPLETGEN_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("APPLETGEN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("APPLETGEN_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("APPLETGEN_LLM_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetryDelayMs = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskSynthesize, "APPLETGEN_LLM_SYNTHESIZE_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskRepair, "APPLETGEN_LLM_REPAIR_TIMEOUT_MS")

	cfg.ApplyProviderDefaults()
}

// ApplyProviderDefaults swaps OpenAI defaults for Ollama ones when the
// provider is ollama and the endpoint or model was left at its default.
func (c *LLMConfig) ApplyProviderDefaults() {
	if c.Provider != ProviderOllama {
		return
	}
	if c.Endpoint == "" || c.Endpoint == DefaultOpenAIEndpoint {
		c.Endpoint = DefaultOllamaEndpoint
	}
	if c.Model == "" || c.Model == DefaultOpenAIModel {
		c.Model = DefaultOllamaModel
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// RetryDelay returns the pause between transport attempts.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = make(map[TaskType]TaskConfig)
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
