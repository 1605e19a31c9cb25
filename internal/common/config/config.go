// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig               `mapstructure:"app"`
	Camunda        CamundaConfig           `mapstructure:"camunda"`
	Database       DatabaseConfig          `mapstructure:"database"`
	Workers        map[string]WorkerConfig `mapstructure:"workers"`
	Recommendation RecommendationConfig    `mapstructure:"recommendation"`
	Notifications  NotificationConfig      `mapstructure:"notifications"`
	Observability  ObservabilityConfig     `mapstructure:"observability"`
	Logging        LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single URL, used when addresses is empty
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Recommendation Engine ---

// RecommendationConfig tunes the scoring engine and where it reads courses from.
type RecommendationConfig struct {
	TablesPath      string            `mapstructure:"tables_path"` // empty = built-in tables
	DefaultLimit    int               `mapstructure:"default_limit"`
	DefaultStrategy string            `mapstructure:"default_strategy"`
	CatalogSource   string            `mapstructure:"catalog_source"` // postgres | elasticsearch
	CatalogIndex    string            `mapstructure:"catalog_index"`
	CacheTTL        int               `mapstructure:"cache_ttl"` // milliseconds
	Weights         ScoringWeights    `mapstructure:"weights"`
	Thresholds      ScoringThresholds `mapstructure:"thresholds"`
}

type ScoringWeights struct {
	CareerPathway float64 `mapstructure:"career_pathway"`
	SkillGap      float64 `mapstructure:"skill_gap"`
	Level         float64 `mapstructure:"level"`
	Prerequisite  float64 `mapstructure:"prerequisite"`
	UserHistory   float64 `mapstructure:"user_history"`
}

// IsZero reports whether no weight was configured at all.
func (w ScoringWeights) IsZero() bool {
	return w == ScoringWeights{}
}

type ScoringThresholds struct {
	Medium float64 `mapstructure:"medium"`
	High   float64 `mapstructure:"high"`
}

// --- Notifications ---

// NotificationConfig holds settings for the notify-recommendations worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled           bool   `mapstructure:"enabled"`
		PriorityThreshold string `mapstructure:"priority_threshold"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// ObservabilityConfig controls tracing and the metrics/health listener.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	MetricsPort    int    `mapstructure:"metrics_port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
