package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// TraceIDKey is the context key every request and job carries.
const TraceIDKey = "traceId"

type Config struct {
	App          AppConfig          `toml:"app"`
	Server       ServerConfig       `toml:"server"`
	Chat         ChatConfig         `toml:"chat"`
	Chunker      ChunkerConfig      `toml:"chunker"`
	Ingest       IngestConfig       `toml:"ingest"`
	LLM          LLMConfig          `toml:"llm"`
	Embedding    EmbeddingConfig    `toml:"embedding"`
	VectorIndex  VectorIndexConfig  `toml:"vectorindex"`
	Qdrant       QdrantConfig       `toml:"qdrant"`
	Redis        RedisConfig        `toml:"redis"`
	Worker       WorkerConfig       `toml:"worker"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`
	HTTPPool     HTTPPoolConfig     `toml:"http_pool"`
}

type AppConfig struct {
	Name      string `toml:"name"`
	Env       string `toml:"env"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	DataDir   string `toml:"data_dir"`
	AuthToken string `toml:"auth_token"`
	// NoAuthBypass disables bearer auth entirely. Local development only.
	NoAuthBypass bool `toml:"no_auth_bypass"`
}

type ServerConfig struct {
	ReadTimeoutSeconds     int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds     int `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int `toml:"shutdown_timeout_seconds"`
	RateLimitPerSecond     int `toml:"rate_limit_per_second"`
	RateLimitBurst         int `toml:"rate_limit_burst"`
}

type ChatConfig struct {
	// MaxTurns counts user+assistant pairs, the buffer holds 2*MaxTurns messages.
	MaxTurns int `toml:"max_turns"`
	TopK     int `toml:"top_k"`
}

type ChunkerConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

type IngestConfig struct {
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
	BatchSize      int   `toml:"batch_size"`
}

type LLMConfig struct {
	Provider      string `toml:"provider"`
	GeminiModel   string `toml:"gemini_model"`
	GeminiAPIKey  string `toml:"gemini_api_key"`
	OpenAIModel   string `toml:"openai_model"`
	OpenAIAPIKey  string `toml:"openai_api_key"`
	OpenAIBaseURL string `toml:"openai_base_url"`
}

type EmbeddingConfig struct {
	Provider             string `toml:"provider"`
	GeminiModel          string `toml:"gemini_model"`
	OpenAIModel          string `toml:"openai_model"`
	OutputDimensionality int    `toml:"output_dimensionality"`
}

type VectorIndexConfig struct {
	// Backend is "memory" (in-process index persisted per session) or "qdrant".
	Backend string `toml:"backend"`
}

type QdrantConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	UseTLS   bool   `toml:"use_tls"`
	PoolSize int    `toml:"pool_size"`
}

type RedisConfig struct {
	Addr             string `toml:"addr"`
	Password         string `toml:"password"`
	JobDB            int    `toml:"job_db"`
	SessionDB        int    `toml:"session_db"`
	JobTTLHours      int    `toml:"job_ttl_hours"`
	SessionTTLHours  int    `toml:"session_ttl_hours"`
	FallbackInMemory bool   `toml:"fallback_in_memory"`
}

type WorkerConfig struct {
	MaxWorkers           int64 `toml:"max_workers"`
	MinWorkers           int64 `toml:"min_workers"`
	IdleTimeoutSeconds   int   `toml:"idle_timeout_seconds"`
	BufferLimit          int   `toml:"buffer_limit"`
	RequestsPerNewWorker int64 `toml:"requests_per_new_worker"`
}

type HousekeepingConfig struct {
	IndexMaxAgeHours     int `toml:"index_max_age_hours"`
	SpoolMaxAgeMinutes   int `toml:"spool_max_age_minutes"`
	SweepIntervalMinutes int `toml:"sweep_interval_minutes"`
}

type HTTPPoolConfig struct {
	MaxIdleConns           int `toml:"max_idle_conns"`
	MaxIdleConnsPerHost    int `toml:"max_idle_conns_per_host"`
	IdleConnTimeoutSeconds int `toml:"idle_conn_timeout_seconds"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}

func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c *RedisConfig) JobTTL() time.Duration {
	return time.Duration(c.JobTTLHours) * time.Hour
}

func (c *RedisConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *WorkerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c *HousekeepingConfig) IndexMaxAge() time.Duration {
	return time.Duration(c.IndexMaxAgeHours) * time.Hour
}

func (c *HousekeepingConfig) SpoolMaxAge() time.Duration {
	return time.Duration(c.SpoolMaxAgeMinutes) * time.Minute
}

func (c *HousekeepingConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func (c *HTTPPoolConfig) IdleConnTimeout() time.Duration {
	return time.Duration(c.IdleConnTimeoutSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "agropro",
			Env:          "dev",
			Host:         "0.0.0.0",
			Port:         3000,
			DataDir:      "data",
			AuthToken:    "",
			NoAuthBypass: true,
		},
		Server: ServerConfig{
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    60,
			IdleTimeoutSeconds:     120,
			ShutdownTimeoutSeconds: 10,
			RateLimitPerSecond:     2,
			RateLimitBurst:         5,
		},
		Chat: ChatConfig{
			MaxTurns: 5,
			TopK:     2,
		},
		Chunker: ChunkerConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Ingest: IngestConfig{
			MaxUploadBytes: 15 * 1024 * 1024,
			BatchSize:      1000,
		},
		LLM: LLMConfig{
			Provider:      "gemini",
			GeminiModel:   "gemini-2.5-flash-lite-preview-09-2025",
			GeminiAPIKey:  "",
			OpenAIModel:   "gpt-4o-mini",
			OpenAIAPIKey:  "",
			OpenAIBaseURL: "",
		},
		Embedding: EmbeddingConfig{
			Provider:             "gemini",
			GeminiModel:          "gemini-embedding-001",
			OpenAIModel:          "text-embedding-3-small",
			OutputDimensionality: 1536,
		},
		VectorIndex: VectorIndexConfig{
			Backend: "memory",
		},
		Qdrant: QdrantConfig{
			Host:     "127.0.0.1",
			Port:     6334,
			UseTLS:   false,
			PoolSize: 1,
		},
		Redis: RedisConfig{
			Addr:             "127.0.0.1:6379",
			Password:         "",
			JobDB:            0,
			SessionDB:        1,
			JobTTLHours:      24,
			SessionTTLHours:  168,
			FallbackInMemory: true,
		},
		Worker: WorkerConfig{
			MaxWorkers:           10,
			MinWorkers:           1,
			IdleTimeoutSeconds:   60,
			BufferLimit:          100,
			RequestsPerNewWorker: 10,
		},
		Housekeeping: HousekeepingConfig{
			IndexMaxAgeHours:     48,
			SpoolMaxAgeMinutes:   60,
			SweepIntervalMinutes: 60,
		},
		HTTPPool: HTTPPoolConfig{
			MaxIdleConns:           50,
			MaxIdleConnsPerHost:    25,
			IdleConnTimeoutSeconds: 60,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.DataDir = getEnv("DATA_DIR", cfg.App.DataDir)
	cfg.App.AuthToken = getEnv("AUTH_TOKEN", cfg.App.AuthToken)
	cfg.App.NoAuthBypass = getEnvAsBool("NO_AUTH_BYPASS", cfg.App.NoAuthBypass)

	cfg.LLM.Provider = getEnv("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.GeminiModel = getEnv("GEMINI_MODEL", cfg.LLM.GeminiModel)
	cfg.LLM.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.LLM.GeminiAPIKey)
	cfg.LLM.OpenAIModel = getEnv("OPENAI_MODEL", cfg.LLM.OpenAIModel)
	cfg.LLM.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.LLM.OpenAIAPIKey)
	cfg.LLM.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.LLM.OpenAIBaseURL)

	cfg.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.GeminiModel = getEnv("EMBEDDING_GEMINI_MODEL", cfg.Embedding.GeminiModel)
	cfg.Embedding.OpenAIModel = getEnv("EMBEDDING_OPENAI_MODEL", cfg.Embedding.OpenAIModel)
	cfg.Embedding.OutputDimensionality = getEnvAsInt("EMBEDDING_DIMENSIONALITY", cfg.Embedding.OutputDimensionality)

	cfg.VectorIndex.Backend = getEnv("VECTOR_BACKEND", cfg.VectorIndex.Backend)
	cfg.Qdrant.Host = getEnv("QDRANT_HOST", cfg.Qdrant.Host)
	cfg.Qdrant.Port = getEnvAsInt("QDRANT_PORT", cfg.Qdrant.Port)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.JobDB = getEnvAsInt("REDIS_JOB_DB", cfg.Redis.JobDB)
	cfg.Redis.SessionDB = getEnvAsInt("REDIS_SESSION_DB", cfg.Redis.SessionDB)

	cfg.Ingest.MaxUploadBytes = getEnvAsInt64("INGEST_MAX_UPLOAD_BYTES", cfg.Ingest.MaxUploadBytes)
	cfg.Chat.MaxTurns = getEnvAsInt("CHAT_MAX_TURNS", cfg.Chat.MaxTurns)
	cfg.Chat.TopK = getEnvAsInt("CHAT_TOP_K", cfg.Chat.TopK)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
