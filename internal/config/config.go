// Package config provides configuration management for the tennis statistics engine.
package config

import (
	"fmt"
	"time"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Paging   PagingConfig   `mapstructure:"paging" validate:"required"`
	Ordering OrderingConfig `mapstructure:"ordering" validate:"required"`
	Stats    StatsConfig    `mapstructure:"stats" validate:"required"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string        `mapstructure:"name" validate:"required"`
	User           string        `mapstructure:"user" validate:"required"`
	Password       string        `mapstructure:"password"`
	SSLMode        string        `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int           `mapstructure:"max_connections" validate:"required,gt=0"`
	MinConnections int           `mapstructure:"min_connections" validate:"gte=0"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" validate:"gte=0"`
}

// CacheConfig represents the named caches of the cache facade
type CacheConfig struct {
	DefaultExpiration time.Duration           `mapstructure:"default_expiration" validate:"gte=0"`
	CleanupInterval   time.Duration           `mapstructure:"cleanup_interval" validate:"gte=0"`
	Expirations       []CacheExpirationConfig `mapstructure:"expirations" validate:"dive"`
}

// CacheExpirationConfig overrides the expiration of one named cache; zero means never expire
type CacheExpirationConfig struct {
	Cache      string        `mapstructure:"cache" validate:"required"`
	Expiration time.Duration `mapstructure:"expiration" validate:"gte=0"`
}

// PagingConfig represents table paging limits
type PagingConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"required,gt=0"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"required,gt=0"`
}

// OrderingConfig represents the canonical orderings of categorical codes, most significant first
type OrderingConfig struct {
	Levels   []string `mapstructure:"levels" validate:"required,min=1,unique"`
	Surfaces []string `mapstructure:"surfaces" validate:"required,min=1,unique"`
}

// StatsConfig represents limits of the statistics queries
type StatsConfig struct {
	TournamentRecordMaxPlayers int `mapstructure:"tournament_record_max_players" validate:"required,gt=0"`
	SeasonHighlightsMaxResults int `mapstructure:"season_highlights_max_results" validate:"required,gt=0"`
}

// JobsConfig represents scheduled cache refresh jobs
type JobsConfig struct {
	Enabled bool               `mapstructure:"enabled"`
	Refresh []RefreshJobConfig `mapstructure:"refresh" validate:"dive"`
}

// RefreshJobConfig represents one cron-triggered cache eviction job
type RefreshJobConfig struct {
	Name       string   `mapstructure:"name" validate:"required"`
	Schedule   string   `mapstructure:"schedule" validate:"required,cronspec"`
	GlobalKeys []string `mapstructure:"global_keys"`
	Caches     []string `mapstructure:"caches"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig represents the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CategoryOrdering returns the canonical level and surface orderings
func (c *Config) CategoryOrdering() models.Ordering {
	return models.Ordering{
		Levels:   models.CategoryOrder(c.Ordering.Levels),
		Surfaces: models.CategoryOrder(c.Ordering.Surfaces),
	}
}

// CacheExpirations returns the per-cache expiration overrides keyed by cache name
func (c *Config) CacheExpirations() map[string]time.Duration {
	expirations := make(map[string]time.Duration, len(c.Cache.Expirations))
	for _, e := range c.Cache.Expirations {
		expirations[e.Cache] = e.Expiration
	}
	return expirations
}

// ClampPageSize returns the default page size for non-positive sizes and caps oversized ones
func (c *Config) ClampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return c.Paging.DefaultPageSize
	}
	return min(pageSize, c.Paging.MaxPageSize)
}
