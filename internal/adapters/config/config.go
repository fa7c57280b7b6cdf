package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"smartretail/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Models        ModelConfig
	Embedding     EmbeddingConfig
	Recommend     RecommendConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"smartretail"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	RequestsPerSec  float64       `envconfig:"HTTP_RATE_LIMIT" default:"50"`
	RateBurst       int           `envconfig:"HTTP_RATE_BURST" default:"100"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"smartretail"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"smartretail"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"retail"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"1h"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
}

// ModelConfig locates the serialized price-model artifacts.
// Each tier lives in its own directory holding a manifest.json plus any
// referenced ONNX graphs.
type ModelConfig struct {
	ArtifactsDir    string `envconfig:"MODEL_ARTIFACTS_DIR" default:"artifacts"`
	MultiModelDir   string `envconfig:"MODEL_MULTI_DIR" default:"fast_price_models"`
	SingleModelDir  string `envconfig:"MODEL_SINGLE_DIR" default:"price_model_improved"`
	BootstrapSeed   int64  `envconfig:"MODEL_BOOTSTRAP_SEED" default:"42"`
	BootstrapSample int    `envconfig:"MODEL_BOOTSTRAP_SAMPLES" default:"500"`
}

type EmbeddingConfig struct {
	Provider string        `envconfig:"EMBEDDING_PROVIDER" default:"openai"`
	APIKey   string        `envconfig:"OPENAI_API_KEY"`
	Model    string        `envconfig:"EMBEDDING_MODEL"`
	Timeout  time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"30s"`
}

type RecommendConfig struct {
	DefaultK        int           `envconfig:"RECOMMEND_DEFAULT_K" default:"5"`
	MaxK            int           `envconfig:"RECOMMEND_MAX_K" default:"50"`
	IndexBatch      int           `envconfig:"RECOMMEND_INDEX_BATCH" default:"64"`
	ReindexEnabled  bool          `envconfig:"RECOMMEND_REINDEX_ENABLED" default:"true"`
	ReindexInterval time.Duration `envconfig:"RECOMMEND_REINDEX_INTERVAL" default:"10m"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
