// Package config loads application settings for the jobmatch command from a
// YAML file and JOBMATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/jobmatch/ai"
	"github.com/spf13/viper"
)

const (
	app       = "jobmatch"
	envPrefix = "JOBMATCH"
)

// Job store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Vector index backends.
const (
	VectorBadger = "badger"
	VectorQdrant = "qdrant"
)

// Intent classifiers.
const (
	ClassifierLLM     = "llm"
	ClassifierKeyword = "keyword"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// DataDir holds the badger database (sessions, ingest checkpoints and the
	// local vector index).
	DataDir string        `mapstructure:"data-dir"`
	AI      *AIConfig     `mapstructure:"ai"`
	Jobs    *JobsConfig   `mapstructure:"jobs"`
	Vector  *VectorConfig `mapstructure:"vector"`
	Ingest  *IngestConfig `mapstructure:"ingest"`
	Router  *RouterConfig `mapstructure:"router"`
}

type AIConfig struct {
	Provider       string  `mapstructure:"provider"`
	EmbeddingHost  string  `mapstructure:"embedding-host"`
	ChatHost       string  `mapstructure:"chat-host"`
	EmbeddingModel string  `mapstructure:"embedding-model"`
	ChatModel      string  `mapstructure:"chat-model"`
	APIKey         string  `mapstructure:"api-key"`
	Temperature    float64 `mapstructure:"temperature"`
}

type JobsConfig struct {
	Driver string `mapstructure:"driver"`
	// Path is the SQLite file. Relative paths resolve against DataDir.
	Path string `mapstructure:"path"`
	// URL is the PostgreSQL connection string.
	URL string `mapstructure:"url"`
}

type VectorConfig struct {
	Backend          string `mapstructure:"backend"`
	QdrantURL        string `mapstructure:"qdrant-url"`
	QdrantAPIKey     string `mapstructure:"qdrant-api-key"`
	Collection       string `mapstructure:"collection"`
	ResumeCollection string `mapstructure:"resume-collection"`
}

type IngestConfig struct {
	BatchSize  int           `mapstructure:"batch-size"`
	Workers    int           `mapstructure:"workers"`
	Rate       float64       `mapstructure:"rate"`
	Burst      int           `mapstructure:"burst"`
	MaxRetries int           `mapstructure:"max-retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
}

type RouterConfig struct {
	// Classifier picks the intent classifier: "llm" asks the chat model,
	// "keyword" applies fixed cues offline.
	Classifier string `mapstructure:"classifier"`
}

func setDefaults(v *viper.Viper) {
	defaults := ai.DefaultConfig()

	v.SetDefault("data-dir", "./jobmatch-data")

	v.SetDefault("ai.provider", defaults.Provider)
	v.SetDefault("ai.embedding-host", defaults.EmbeddingHost)
	v.SetDefault("ai.chat-host", defaults.ChatHost)
	v.SetDefault("ai.embedding-model", defaults.EmbeddingModel)
	v.SetDefault("ai.chat-model", defaults.ChatModel)
	v.SetDefault("ai.api-key", defaults.APIKey)
	v.SetDefault("ai.temperature", defaults.Temperature)

	v.SetDefault("jobs.driver", DriverSQLite)
	v.SetDefault("jobs.path", "jobs.db")
	v.SetDefault("jobs.url", "")

	v.SetDefault("vector.backend", VectorBadger)
	v.SetDefault("vector.qdrant-url", "http://localhost:6333")
	v.SetDefault("vector.qdrant-api-key", "")
	v.SetDefault("vector.collection", "job_listings")
	v.SetDefault("vector.resume-collection", "uploaded_cvs")

	v.SetDefault("ingest.batch-size", 64)
	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.rate", 0)
	v.SetDefault("ingest.burst", 1)
	v.SetDefault("ingest.max-retries", 3)
	v.SetDefault("ingest.retry-delay", time.Second)

	v.SetDefault("router.classifier", ClassifierLLM)
}

// Load reads the configuration. With an empty path, jobmatch.yaml in the
// working directory is used when present. Environment variables override file
// values: ai.chat-model is read from JOBMATCH_AI_CHAT_MODEL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg *Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// AIConfig converts the settings into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.AI.Provider),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithChatModel(c.AI.ChatModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithTemperature(c.AI.Temperature),
	)
}

// JobsPath returns the SQLite file location.
func (c *Config) JobsPath() string {
	if filepath.IsAbs(c.Jobs.Path) || c.DataDir == "" {
		return c.Jobs.Path
	}
	return filepath.Join(c.DataDir, c.Jobs.Path)
}

// Validate checks the settings needed to open the stores and the AI provider.
func (c *Config) Validate() error {
	if c.AI == nil || c.Jobs == nil || c.Vector == nil || c.Ingest == nil || c.Router == nil {
		return fmt.Errorf("%w: missing section", ErrInvalid)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data-dir is required", ErrInvalid)
	}

	switch c.Jobs.Driver {
	case DriverSQLite:
		if c.Jobs.Path == "" {
			return fmt.Errorf("%w: jobs.path is required for sqlite", ErrInvalid)
		}
	case DriverPostgres:
		if c.Jobs.URL == "" {
			return fmt.Errorf("%w: jobs.url is required for postgres", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: jobs.driver must be one of %s, %s", ErrInvalid, DriverSQLite, DriverPostgres)
	}

	switch c.Vector.Backend {
	case VectorBadger:
	case VectorQdrant:
		if c.Vector.QdrantURL == "" || c.Vector.Collection == "" {
			return fmt.Errorf("%w: vector.qdrant-url and vector.collection are required for qdrant", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: vector.backend must be one of %s, %s", ErrInvalid, VectorBadger, VectorQdrant)
	}

	if c.Ingest.BatchSize <= 0 || c.Ingest.MaxRetries <= 0 {
		return fmt.Errorf("%w: ingest.batch-size and ingest.max-retries must be positive", ErrInvalid)
	}

	switch c.Router.Classifier {
	case ClassifierLLM, ClassifierKeyword:
	default:
		return fmt.Errorf("%w: router.classifier must be one of %s, %s", ErrInvalid, ClassifierLLM, ClassifierKeyword)
	}

	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
