package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/appletgen/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Synth.MaxAttempts)
	assert.Equal(t, "applet_name.txt", cfg.Output.SlugFile)
	assert.True(t, cfg.History.Enabled)
	assert.Empty(t, cfg.Public.Dir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
llm:
  provider: ollama
  max_retries: 5
synth:
  max_attempts: 2
output:
  dir: build
public:
  dir: site
  library_source: vendor/zdog.dist.min.js
history:
  enabled: false
log_mode: prod
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultOllamaEndpoint, cfg.LLM.Endpoint)
	assert.Equal(t, llm.DefaultOllamaModel, cfg.LLM.Model)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
	assert.Equal(t, 2, cfg.Synth.MaxAttempts)
	assert.Equal(t, "build", cfg.Output.Dir)
	assert.Equal(t, "applet_name.txt", cfg.Output.SlugFile)
	assert.Equal(t, "site", cfg.Public.Dir)
	assert.Equal(t, "vendor/zdog.dist.min.js", cfg.Public.LibrarySource)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, LogProd, cfg.LogMode)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "output:\n  dir: build\nlog_mode: prod\n")
	t.Setenv("APPLETGEN_OUTPUT_DIR", "env-build")
	t.Setenv("APPLETGEN_LOG_MODE", "quiet")
	t.Setenv("APPLETGEN_HISTORY", "false")
	t.Setenv("APPLETGEN_SYNTH_MAX_ATTEMPTS", "4")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-build", cfg.Output.Dir)
	assert.Equal(t, LogQuiet, cfg.LogMode)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 4, cfg.Synth.MaxAttempts)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeFile(t, "outptu:\n  dir: x\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APPLETGEN_HISTORY", "sometimes")

	_, err := Load("")
	assert.ErrorContains(t, err, "APPLETGEN_HISTORY")
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.LogMode = "verbose"
	cfg.LLM.Provider = "bard"
	cfg.Synth.MaxAttempts = 0
	cfg.Output.Dir = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrUnknownProvider)
	assert.ErrorContains(t, err, "log_mode")
	assert.ErrorContains(t, err, "synth.max_attempts")
	assert.ErrorContains(t, err, "output.dir")
}
