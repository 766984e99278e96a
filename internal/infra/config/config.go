package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env         string
	Server      ServerConfig
	DB          DBConfig
	Ollama      OllamaConfig
	Session     SessionConfig
	Redis       RedisConfig
	Retrieval   RetrievalConfig
	Ingest      IngestConfig
	OTelEnabled bool
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
	MinConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type OllamaConfig struct {
	URL            string
	EmbeddingModel string
	ChatModel      string
}

// SessionConfig selects the session backend and its retention behavior.
// Backend is "redis" or "memory".
type SessionConfig struct {
	Backend          string
	TTL              time.Duration
	MaxTurns         int
	MemoryMaxEntries int
	OpTimeout        time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) URL() string {
	return fmt.Sprintf("redis://%s/%d", c.Addr, c.DB)
}

type RetrievalConfig struct {
	TopK          int
	ContextBudget int
	EmbedTimeout  time.Duration
	SearchTimeout time.Duration
	GenTimeout    time.Duration
}

type IngestConfig struct {
	Feeds      []string
	Interval   time.Duration
	ExcerptCap int
}

func Load() *Config {
	return &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			Port: getEnv("PORT", "9020"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "chat-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "chat_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "chat_password"),
			Name:     getEnv("DB_NAME", "chat_db"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Ollama: OllamaConfig{
			URL:            getEnv("OLLAMA_URL", "http://ollama:11434"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "embeddinggemma"),
			ChatModel:      getEnv("CHAT_MODEL", "gemma3:4b"),
		},
		Session: SessionConfig{
			Backend:          getEnv("SESSION_STORE", "redis"),
			TTL:              getEnvDuration("SESSION_TTL_MINUTES", 60*time.Minute),
			MaxTurns:         getEnvInt("CHAT_MAX_TURNS", 10),
			MemoryMaxEntries: getEnvInt("SESSION_MEMORY_MAX_ENTRIES", 4096),
			OpTimeout:        getEnvDurationSeconds("SESSION_OP_TIMEOUT_SECONDS", 2*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "chat-redis:6379"),
			Password: getSecret("REDIS_PASSWORD", "REDIS_PASSWORD_FILE", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Retrieval: RetrievalConfig{
			TopK:          getEnvInt("RETRIEVAL_TOP_K", 5),
			ContextBudget: getEnvInt("CONTEXT_CHAR_BUDGET", 6000),
			EmbedTimeout:  getEnvDurationSeconds("EMBED_TIMEOUT_SECONDS", 10*time.Second),
			SearchTimeout: getEnvDurationSeconds("SEARCH_TIMEOUT_SECONDS", 5*time.Second),
			GenTimeout:    getEnvDurationSeconds("GENERATION_TIMEOUT_SECONDS", 60*time.Second),
		},
		Ingest: IngestConfig{
			Feeds:      getEnvList("INGEST_FEEDS"),
			Interval:   getEnvDuration("INGEST_INTERVAL_MINUTES", 15*time.Minute),
			ExcerptCap: getEnvInt("INGEST_EXCERPT_CAP", 1000),
		},
		OTelEnabled: getEnvBool("OTEL_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvDuration reads a minute count.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed) * time.Minute
		}
	}
	return fallback
}

// getEnvDurationSeconds reads a second count.
func getEnvDurationSeconds(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
