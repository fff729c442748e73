// Package config loads the layered configuration that drives a documentation
// generation run: built-in defaults, overridden by a YAML file, overridden
// in turn by process variables (environment and an optional .env file).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/repodocs/repodocs/internal/logging"
)

// Config holds the full configuration surface consumed by the pipeline.
type Config struct {
	TargetLanguage        string `yaml:"target_language"`
	OutputDir             string `yaml:"output_dir"`
	ParallelEnabled       bool   `yaml:"parallel_enabled"`
	MaxWorkers            int    `yaml:"max_workers"`
	MaxConcurrentLLMCalls int    `yaml:"max_concurrent_llm_calls"`

	LLM       LLMConfig       `yaml:"llm"`
	Repo      RepoConfig      `yaml:"repo"`
	Parse     ParseConfig     `yaml:"parse"`
	Quality   QualityConfig   `yaml:"quality"`
	Mermaid   MermaidConfig   `yaml:"mermaid"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`

	// ModelOverrides maps model_<node_name> process/config overrides to a
	// model string, consulted before the task-type preference.
	ModelOverrides map[string]string `yaml:"model_overrides"`
}

// LLMConfig configures the LLM Call Layer.
type LLMConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"` // "provider/model" or "provider/upstream/model"
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	MaxTokens       int    `yaml:"max_tokens"`
	MaxInputTokens  int    `yaml:"max_input_tokens"`
	Temperature     float64 `yaml:"temperature"`
	CacheEnabled    bool   `yaml:"cache_enabled"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CacheDir        string `yaml:"cache_dir"`
	Timeout         string `yaml:"timeout"`
	RetryCount      int    `yaml:"retry_count"`

	CircuitBreakerThreshold float64 `yaml:"circuit_breaker_threshold"`
	CircuitBreakerCooldown  string  `yaml:"circuit_breaker_cooldown"`
}

// RepoConfig configures PrepareRepo.
type RepoConfig struct {
	DefaultBranch   string `yaml:"default_branch"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CacheDir        string `yaml:"cache_dir"`
	ForceClone      bool   `yaml:"force_clone"`
	MaxCommits      int    `yaml:"max_commits"`
	MaxRepoSizeMB   int64  `yaml:"max_repo_size_mb"`
}

// ParseConfig configures ParseCodeBatch.
type ParseConfig struct {
	IgnorePatterns   []string `yaml:"ignore_patterns"`
	BinaryExtensions []string `yaml:"binary_extensions"`
	MaxFiles         int      `yaml:"max_files"`
	BatchSize        int      `yaml:"batch_size"`
}

// QualityConfig configures ContentQualityCheck.
type QualityConfig struct {
	OverallThreshold         float64            `yaml:"overall_threshold"`
	AutoRegenerate           bool               `yaml:"auto_regenerate"`
	MaxRegenerationAttempts  int                `yaml:"max_regeneration_attempts"`
	DimensionThresholds      map[string]float64 `yaml:"dimension_thresholds"`
	MaxModulesPerBatch       int                `yaml:"max_modules_per_batch"`
}

// MermaidConfig configures the Mermaid Validation Engine.
type MermaidConfig struct {
	Enabled                 bool     `yaml:"enabled"`
	UseExternalRenderer     bool     `yaml:"use_external_renderer"`
	FallbackToRules         bool     `yaml:"fallback_to_rules"`
	BackupFiles             bool     `yaml:"backup_files"`
	MaxRegenerationAttempts int      `yaml:"max_regeneration_attempts"`
	SupportedChartTypes     []string `yaml:"supported_chart_types"`
	RegenerationPromptTemplate string `yaml:"regeneration_prompt_template"`
}

// EmbeddingConfig configures the optional embedding engine behind PrepareRAGData.
type EmbeddingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Provider       string `yaml:"provider"` // "ollama" or "genai"
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
	GenAIAPIKey    string `yaml:"genai_api_key"`
	GenAIModel     string `yaml:"genai_model"`
	TaskType       string `yaml:"task_type"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		TargetLanguage:        "en",
		OutputDir:             "./output",
		ParallelEnabled:       true,
		MaxWorkers:            8,
		MaxConcurrentLLMCalls: 5,

		LLM: LLMConfig{
			Provider:                "anthropic",
			Model:                   "anthropic/claude-sonnet-4",
			BaseURL:                 "",
			MaxTokens:               4096,
			MaxInputTokens:          100000,
			Temperature:             0.2,
			CacheEnabled:            true,
			CacheTTLSeconds:         86400,
			CacheDir:                ".repodocs/cache/llm",
			Timeout:                 "120s",
			RetryCount:              3,
			CircuitBreakerThreshold: 0.5,
			CircuitBreakerCooldown:  "30s",
		},

		Repo: RepoConfig{
			DefaultBranch:   "main",
			CacheTTLSeconds: 3600,
			CacheDir:        ".repodocs/cache/repo",
			ForceClone:      false,
			MaxCommits:      1000,
			MaxRepoSizeMB:   2048,
		},

		Parse: ParseConfig{
			IgnorePatterns:   []string{".git/", "node_modules/", "vendor/", "dist/", "build/", ".repodocs/"},
			BinaryExtensions: []string{".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf", ".zip", ".tar", ".gz", ".exe", ".bin", ".so", ".dylib", ".dll"},
			MaxFiles:         5000,
			BatchSize:        150,
		},

		Quality: QualityConfig{
			OverallThreshold:        7.0,
			AutoRegenerate:          true,
			MaxRegenerationAttempts: 2,
			DimensionThresholds:     map[string]float64{},
			MaxModulesPerBatch:      20,
		},

		Mermaid: MermaidConfig{
			Enabled:                 true,
			UseExternalRenderer:     false,
			FallbackToRules:         true,
			BackupFiles:             true,
			MaxRegenerationAttempts: 2,
			SupportedChartTypes: []string{
				"graph", "flowchart", "sequenceDiagram", "classDiagram",
				"stateDiagram", "pie", "timeline", "gitgraph", "mindmap", "erDiagram",
			},
		},

		Embedding: EmbeddingConfig{
			Enabled:        false,
			Provider:       "ollama",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
			TaskType:       "RETRIEVAL_DOCUMENT",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},

		ModelOverrides: map[string]string{},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies process-variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("config loaded: provider=%s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
	return cfg, nil
}

// Save writes configuration back out as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides applies the process-variable overrides: the API
// key is required and selected in priority order; a unified base URL wins
// over provider-specific ones when both are set.
func (c *Config) applyEnvOverrides() {
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		c.LLM.Provider = "anthropic"
	case os.Getenv("OPENAI_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		c.LLM.Provider = "openai"
	case os.Getenv("GEMINI_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		c.LLM.Provider = "gemini"
	case os.Getenv("XAI_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("XAI_API_KEY")
		c.LLM.Provider = "xai"
	case os.Getenv("OPENROUTER_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
		c.LLM.Provider = "openrouter"
	}

	// Provider-specific base URL, overridden by the unified one if both set.
	if url := os.Getenv(envProviderBaseURL(c.LLM.Provider)); url != "" {
		c.LLM.BaseURL = url
	}
	if url := os.Getenv("REPODOCS_LLM_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}

	if dir := os.Getenv("REPODOCS_CACHE_DIR"); dir != "" {
		c.LLM.CacheDir = filepath.Join(dir, "llm")
		c.Repo.CacheDir = filepath.Join(dir, "repo")
	}

	for _, env := range os.Environ() {
		// model_<node_name> overrides flow through process variables too,
		// recognized as REPODOCS_MODEL_<NODE_NAME>=provider/model.
		const prefix = "REPODOCS_MODEL_"
		if len(env) > len(prefix) && env[:len(prefix)] == prefix {
			k, v := splitEnvPair(env[len(prefix):])
			if k != "" {
				if c.ModelOverrides == nil {
					c.ModelOverrides = map[string]string{}
				}
				c.ModelOverrides["model_"+strings.ToLower(k)] = v
			}
		}
	}

	if key := os.Getenv("OLLAMA_EMBEDDING_MODEL"); key != "" {
		c.Embedding.OllamaModel = key
	}
	if endpoint := os.Getenv("OLLAMA_ENDPOINT"); endpoint != "" {
		c.Embedding.OllamaEndpoint = endpoint
	}
	if key := os.Getenv("GENAI_API_KEY"); key != "" {
		c.Embedding.GenAIAPIKey = key
	}
}

func envProviderBaseURL(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_BASE_URL"
	case "openai":
		return "OPENAI_BASE_URL"
	case "gemini":
		return "GEMINI_BASE_URL"
	case "xai":
		return "XAI_BASE_URL"
	case "openrouter":
		return "OPENROUTER_BASE_URL"
	default:
		return "REPODOCS_LLM_BASE_URL_UNUSED"
	}
}

func splitEnvPair(s string) (key, value string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:]
		}
	}
	return "", ""
}

// ModelFor resolves the model string for a named node: its override first,
// then the supplied task-type preference, then the global model.
func (c *Config) ModelFor(nodeName, taskTypePreferred string) string {
	if m, ok := c.ModelOverrides["model_"+nodeName]; ok && m != "" {
		return m
	}
	if taskTypePreferred != "" {
		return taskTypePreferred
	}
	return c.LLM.Model
}

// GetLLMTimeout returns the LLM call timeout, defaulting on parse error.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetCacheTTL returns the LLM cache entry TTL.
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.LLM.CacheTTLSeconds) * time.Second
}

// GetRepoCacheTTL returns the repo cache entry TTL.
func (c *Config) GetRepoCacheTTL() time.Duration {
	return time.Duration(c.Repo.CacheTTLSeconds) * time.Second
}

// GetCircuitBreakerCooldown returns the circuit breaker cool-down window.
func (c *Config) GetCircuitBreakerCooldown() time.Duration {
	d, err := time.ParseDuration(c.LLM.CircuitBreakerCooldown)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValidProviders lists supported LLM providers.
var ValidProviders = []string{"anthropic", "openai", "gemini", "xai", "openrouter"}

// Validate checks that the configuration is runnable.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, XAI_API_KEY, or OPENROUTER_API_KEY)")
	}
	valid := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must be set")
	}
	return nil
}

// LoggingConfigFor adapts this config's Logging section into logging.Config.
func (c *Config) LoggingConfigFor() logging.Config {
	return logging.Config{
		DebugMode:  c.Logging.DebugMode,
		Categories: c.Logging.Categories,
		Level:      c.Logging.Level,
		JSONFormat: c.Logging.JSONFormat,
	}
}
