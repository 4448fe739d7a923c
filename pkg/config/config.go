package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type JWTConfig struct {
	SecretKey string
}

type OpenAIConfig struct {
	Provider    string
	Model       string
	EmbedModel  string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// EngineConfig carries the tunable ranking parameters. Weights are
// validated at engine construction, not here.
type EngineConfig struct {
	WCollaborative float64
	WContent       float64
	WGraph         float64
	WSemantic      float64
	CacheTTL       time.Duration
	OverallTimeout time.Duration
	ScorerTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := getEnvInt("REDIS_DB", 0)

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ProcureMatch API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "procurematch"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		OpenAI: OpenAIConfig{
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			EmbedModel:  getEnv("LLM_EMBED_MODEL", "text-embedding-3-small"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2048),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
			Timeout:     time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Engine: EngineConfig{
			WCollaborative: getEnvFloat("ENGINE_W_COLLABORATIVE", 0.25),
			WContent:       getEnvFloat("ENGINE_W_CONTENT", 0.25),
			WGraph:         getEnvFloat("ENGINE_W_GRAPH", 0.30),
			WSemantic:      getEnvFloat("ENGINE_W_SEMANTIC", 0.20),
			CacheTTL:       time.Duration(getEnvInt("ENGINE_CACHE_TTL_SECONDS", 3600)) * time.Second,
			OverallTimeout: time.Duration(getEnvInt("ENGINE_TIMEOUT_MS", 5000)) * time.Millisecond,
			ScorerTimeout:  time.Duration(getEnvInt("ENGINE_SCORER_TIMEOUT_MS", 2500)) * time.Millisecond,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.OpenAI.APIKey == "" && cfg.OpenAI.Provider != "ollama" {
		return nil, errors.New("missing llm api key")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}
