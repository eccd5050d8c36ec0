package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedModelDir  = "embedding.model_dir"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyIndexBackend   = "index.backend"
	keyIndexDataDir   = "index.data_dir"
	keyIndexDSN       = "index.dsn"
	keyIndexTable     = "index.table"
	keyChunkSize      = "splitter.chunk_size"
	keyChunkOverlap   = "splitter.overlap"
	keyQueryTopK      = "query.top_k"
	keyQueryMaxTokens = "query.max_tokens"
	keyQueryTimeout   = "query.timeout_seconds"
	keyServerAddr     = "server.addr"
	keyServerRate     = "server.rate_limit"
	keyServerBurst    = "server.burst"
	keyServerUpload   = "server.max_upload_mb"
	keyServerTimeout  = "server.request_timeout_seconds"
)

// EnvPrefix prefixes environment overrides: index.backend is read from
// PDFRAG_INDEX_BACKEND.
const EnvPrefix = "PDFRAG_"

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settingKinds lists every supported key with its value type.
var settingKinds = map[string]valueKind{
	keyEmbedProvider:  kindString,
	keyEmbedModel:     kindString,
	keyEmbedBaseURL:   kindString,
	keyEmbedAPIKey:    kindString,
	keyEmbedModelDir:  kindString,
	keyLLMProvider:    kindString,
	keyLLMModel:       kindString,
	keyLLMBaseURL:     kindString,
	keyLLMAPIKey:      kindString,
	keyIndexBackend:   kindString,
	keyIndexDataDir:   kindString,
	keyIndexDSN:       kindString,
	keyIndexTable:     kindString,
	keyChunkSize:      kindInt,
	keyChunkOverlap:   kindInt,
	keyQueryTopK:      kindInt,
	keyQueryMaxTokens: kindInt,
	keyQueryTimeout:   kindInt,
	keyServerAddr:     kindString,
	keyServerRate:     kindFloat,
	keyServerBurst:    kindInt,
	keyServerUpload:   kindInt,
	keyServerTimeout:  kindInt,
}

type keyValue struct {
	key   string
	value any
}

// SettingsService manages application settings. Values are resolved from
// the environment first, then the config file, then the defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.getString(keyEmbedBaseURL, ""), // No default - empty is valid for cloud providers
			APIKey:   s.getString(keyEmbedAPIKey, ""),
			ModelDir: s.getString(keyEmbedModelDir, s.defaultDir("models")),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.getString(keyLLMBaseURL, ""),
			APIKey:   s.getString(keyLLMAPIKey, ""),
		},
		Index: domain.IndexSettings{
			Backend: domain.IndexBackend(s.getString(keyIndexBackend, defaults.Index.Backend.String())),
			DataDir: s.getString(keyIndexDataDir, s.defaultDir("index")),
			DSN:     s.getString(keyIndexDSN, ""),
			Table:   s.getString(keyIndexTable, defaults.Index.Table),
		},
		Splitter: domain.SplitterSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Splitter.ChunkSize),
			Overlap:   s.getInt(keyChunkOverlap, defaults.Splitter.Overlap),
		},
		Query: domain.QuerySettings{
			TopK:      s.getInt(keyQueryTopK, defaults.Query.TopK),
			MaxTokens: s.getInt(keyQueryMaxTokens, defaults.Query.MaxTokens),
			Timeout:   s.getSeconds(keyQueryTimeout, defaults.Query.Timeout),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, defaults.Server.Addr),
			RateLimit:      s.getFloat(keyServerRate, defaults.Server.RateLimit),
			Burst:          s.getInt(keyServerBurst, defaults.Server.Burst),
			MaxUploadMB:    s.getInt(keyServerUpload, defaults.Server.MaxUploadMB),
			RequestTimeout: s.getSeconds(keyServerTimeout, defaults.Server.RequestTimeout),
		},
	}

	// Models default per provider, so they resolve after the provider.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	// Well-known provider variables fill in missing keys.
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = s.getenv("OPENAI_API_KEY")
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = s.getenv("OPENAI_API_KEY")
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = s.getenv("ANTHROPIC_API_KEY")
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []keyValue{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedModelDir, settings.Embedding.ModelDir},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyIndexBackend, settings.Index.Backend.String()},
		{keyIndexDataDir, settings.Index.DataDir},
		{keyIndexDSN, settings.Index.DSN},
		{keyIndexTable, settings.Index.Table},
		{keyChunkSize, settings.Splitter.ChunkSize},
		{keyChunkOverlap, settings.Splitter.Overlap},
		{keyQueryTopK, settings.Query.TopK},
		{keyQueryMaxTokens, settings.Query.MaxTokens},
		{keyQueryTimeout, int(settings.Query.Timeout / time.Second)},
		{keyServerAddr, settings.Server.Addr},
		{keyServerRate, settings.Server.RateLimit},
		{keyServerBurst, settings.Server.Burst},
		{keyServerUpload, settings.Server.MaxUploadMB},
		{keyServerTimeout, int(settings.Server.RequestTimeout / time.Second)},
	}
	// API keys are only written when set, so keys from the environment
	// are never copied into the config file by accident.
	if settings.Embedding.APIKey != "" {
		values = append(values, keyValue{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, keyValue{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting, converting the value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return domain.NewValidationError("key", fmt.Sprintf("unknown setting %q", key))
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return domain.NewValidationError(key, fmt.Sprintf("%q is not a non-negative integer", value))
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return domain.NewValidationError(key, fmt.Sprintf("%q is not a non-negative number", value))
		}
		typed = f
	default:
		typed = value
	}

	switch key {
	case keyEmbedProvider, keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return domain.NewValidationError(key, fmt.Sprintf("unknown provider %q", value))
		}
	case keyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return domain.NewValidationError(key, fmt.Sprintf("unknown backend %q", value))
		}
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the supported setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that the current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not usable for embeddings or lacks an API key",
			settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not usable for generation or lacks an API key",
			settings.LLM.Provider)
	}
	if !settings.Index.Backend.IsValid() {
		return fmt.Errorf("invalid index backend: %s", settings.Index.Backend)
	}
	if settings.Index.Backend == domain.IndexBackendPostgres && settings.Index.DSN == "" {
		return fmt.Errorf("index backend postgres requires %s", keyIndexDSN)
	}
	if settings.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("%s must be positive", keyChunkSize)
	}
	if settings.Splitter.Overlap >= settings.Splitter.ChunkSize {
		return fmt.Errorf("%s must be smaller than %s", keyChunkOverlap, keyChunkSize)
	}
	if settings.Query.TopK <= 0 {
		return fmt.Errorf("%s must be positive", keyQueryTopK)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// PipelineConfig returns the splitter -> identifier pipeline configuration.
func (s *SettingsService) PipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	return domain.PipelineConfigFor(settings.Splitter)
}

// Helper methods for reading config with defaults.

// envKey maps "index.data_dir" to "PDFRAG_INDEX_DATA_DIR".
func envKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func (s *SettingsService) env(key string) (string, bool) {
	val := s.getenv(envKey(key))
	return val, val != ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val, ok := s.env(key); ok {
		return val
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val, ok := s.env(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val, ok := s.env(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.getInt(key, -1)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.getString(key, ""))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// defaultDir places data next to the config file.
func (s *SettingsService) defaultDir(name string) string {
	path := s.configStore.Path()
	if path == "" {
		return name
	}
	return filepath.Join(filepath.Dir(path), name)
}
