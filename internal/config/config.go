// Package config reads the service configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultClassifierURL = "https://otc-only-model.s3.amazonaws.com/otc_classifier_no_postpain.json"

type Config struct {
	Server    ServerConfig
	Artifacts ArtifactConfig
	Database  DatabaseConfig
	Log       LogConfig
	OTEL      OTELConfig
}

type ServerConfig struct {
	Port         string
	GinMode      string
	MaxBodyBytes int64
}

// ArtifactConfig locates the fitted models and reference data.
type ArtifactConfig struct {
	PreprocessorPath string
	PainModelPath    string
	WeeksModelPath   string
	ClassifierURL    string
	DatasetPath      string
	FetchTimeout     time.Duration
}

type DatabaseConfig struct {
	URL     string
	Enabled bool
}

type LogConfig struct {
	Env   string
	Level string
}

type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			GinMode:      getEnv("GIN_MODE", "release"),
			MaxBodyBytes: int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		},
		Artifacts: ArtifactConfig{
			PreprocessorPath: getEnv("PREPROCESSOR_PATH", "otc_preprocessor_no_postpain.json"),
			PainModelPath:    getEnv("PAIN_MODEL_PATH", "pain_reduction_model.json"),
			WeeksModelPath:   getEnv("WEEKS_MODEL_PATH", "weeks_to_effect_model.json"),
			ClassifierURL:    getEnv("CLASSIFIER_URL", DefaultClassifierURL),
			DatasetPath:      getEnv("REFERENCE_DATA_PATH", "OTC-Data.csv"),
			FetchTimeout:     getEnvAsDuration("ARTIFACT_FETCH_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			Enabled: getEnvAsBool("ENABLE_DB", false),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "production"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "otc-advisor"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       os.Getenv("OTEL_ENDPOINT"),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Database.Enabled && cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint == "" {
		return nil, fmt.Errorf("OTEL_ENDPOINT is required when OTEL_ENABLED=true")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
