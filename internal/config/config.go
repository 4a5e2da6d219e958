package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Extractor mode names accepted in FACE_PROVIDER.
const (
	ProviderInsight = "insight"
	ProviderPixel   = "pixel"
	ProviderMock    = "mock"
	ProviderAuto    = "auto"
)

// Distance metric names accepted in DISTANCE_METRIC.
const (
	MetricCosine = "cosine"
	MetricL2     = "l2"
)

// Blob driver names accepted in BLOB_DRIVER.
const (
	BlobDriverLocal = "local"
	BlobDriverMinio = "minio"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	ConnectionURI string `envconfig:"CONNECTION_URI" required:"true"`

	// Security
	APIKey string `envconfig:"API_KEY" required:"true"`

	// Matching. Thresholds are distances: a query matches when its distance
	// to the nearest reference embedding is strictly below MatchThreshold.
	// DuplicateThreshold is the stricter bound used by the enrollment
	// duplicate guard.
	MatchThreshold         float64 `envconfig:"MATCH_THRESHOLD" default:"0.5"`
	DuplicateThreshold     float64 `envconfig:"DUPLICATE_THRESHOLD" default:"0.4"`
	MinDetectionConfidence float64 `envconfig:"MIN_DETECTION_CONFIDENCE" default:"0.6"`
	EmbeddingDimension     int     `envconfig:"EMBEDDING_DIMENSION" default:"512"`
	DistanceMetric         string  `envconfig:"DISTANCE_METRIC" default:"cosine"`

	// Extractor
	FaceProvider      string        `envconfig:"FACE_PROVIDER" default:"auto"`
	InsightURL        string        `envconfig:"INSIGHT_URL" default:"http://localhost:18081"`
	InsightTimeout    time.Duration `envconfig:"INSIGHT_TIMEOUT" default:"10s"`
	InsightRetryCount int           `envconfig:"INSIGHT_RETRY_COUNT" default:"3"`

	// Blob storage
	BlobDriver          string `envconfig:"BLOB_DRIVER" default:"local"`
	BlobLocalPath       string `envconfig:"BLOB_LOCAL_PATH" default:"./data/blobs"`
	MinioEndpoint       string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey      string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey      string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket         string `envconfig:"MINIO_BUCKET" default:"facegate"`
	MinioUseSSL         bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	StoreEventSnapshots bool   `envconfig:"STORE_EVENT_SNAPSHOTS" default:"false"`

	// Background work
	WebhookWorkerInterval time.Duration `envconfig:"WEBHOOK_WORKER_INTERVAL" default:"5s"`
	WebhookMaxAttempts    int           `envconfig:"WEBHOOK_MAX_ATTEMPTS" default:"5"`

	// Statistics
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"60s"`

	// Rate limiting on the pipeline routes (per client IP, requests/minute)
	RateLimitRPM int `envconfig:"RATE_LIMIT_RPM" default:"120"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that would pass envconfig but misbehave at
// runtime, so startup fails instead of the first request.
func (c *Config) Validate() error {
	if c.MatchThreshold <= 0 {
		return fmt.Errorf("MATCH_THRESHOLD must be positive, got %v", c.MatchThreshold)
	}
	if c.DuplicateThreshold <= 0 {
		return fmt.Errorf("DUPLICATE_THRESHOLD must be positive, got %v", c.DuplicateThreshold)
	}
	if c.DistanceMetric == MetricCosine && c.MatchThreshold > 2 {
		return fmt.Errorf("MATCH_THRESHOLD %v is out of range for cosine distance", c.MatchThreshold)
	}
	if c.MinDetectionConfidence < 0 || c.MinDetectionConfidence > 1 {
		return fmt.Errorf("MIN_DETECTION_CONFIDENCE must be in [0,1], got %v", c.MinDetectionConfidence)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}

	switch c.DistanceMetric {
	case MetricCosine, MetricL2:
	default:
		return fmt.Errorf("unknown DISTANCE_METRIC %q (use %s or %s)", c.DistanceMetric, MetricCosine, MetricL2)
	}

	switch c.FaceProvider {
	case ProviderInsight, ProviderPixel, ProviderMock, ProviderAuto:
	default:
		return fmt.Errorf("unknown FACE_PROVIDER %q", c.FaceProvider)
	}

	switch c.BlobDriver {
	case BlobDriverLocal:
	case BlobDriverMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("minio blob driver requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver)
	}

	if c.WebhookMaxAttempts <= 0 {
		return fmt.Errorf("WEBHOOK_MAX_ATTEMPTS must be positive, got %d", c.WebhookMaxAttempts)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
