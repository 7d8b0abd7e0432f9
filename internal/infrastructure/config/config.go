// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS        bool          `mapstructure:"enable_cors"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// EngineConfig contains the recommendation engine tunables. Zero values fall
// back to the engine's built-in defaults.
type EngineConfig struct {
	Weights             WeightsConfig `mapstructure:"weights"`
	TimePenaltyCurve    string        `mapstructure:"time_penalty_curve"`
	ExplorationChance   float64       `mapstructure:"exploration_chance"`
	NoveltyBonus        float64       `mapstructure:"novelty_bonus"`
	UnseenCuisineBonus  float64       `mapstructure:"unseen_cuisine_bonus"`
	RepetitionPenalty   float64       `mapstructure:"repetition_penalty"`
	FeedbackCooldown    time.Duration `mapstructure:"feedback_cooldown"`
	MaxRefineIterations int           `mapstructure:"max_refine_iterations"`
	RandomSeed          int64         `mapstructure:"random_seed"`
}

// WeightsConfig contains the sub-score weights
type WeightsConfig struct {
	Food     float64 `mapstructure:"food"`
	Cooking  float64 `mapstructure:"cooking"`
	Budget   float64 `mapstructure:"budget"`
	Variety  float64 `mapstructure:"variety"`
	Overlap  float64 `mapstructure:"overlap"`
	Cuisine  float64 `mapstructure:"cuisine"`
	Pantry   float64 `mapstructure:"pantry"`
	Feedback float64 `mapstructure:"feedback"`
}

// CatalogConfig controls how the recipe catalog is populated
type CatalogConfig struct {
	SeedRecipes int   `mapstructure:"seed_recipes"`
	SeedValue   int64 `mapstructure:"seed_value"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool   `mapstructure:"enable_metrics"`
	MetricsPath     string `mapstructure:"metrics_path"`
	HealthCheckPath string `mapstructure:"health_check_path"`
	ReadinessPath   string `mapstructure:"readiness_path"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enable         bool `mapstructure:"enable"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	BurstSize      int  `mapstructure:"burst_size"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mealsmith")
	}

	// Enable environment variable override
	v.SetEnvPrefix("MEALSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Mealsmith")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.enable_compression", true)

	// Engine defaults
	v.SetDefault("engine.weights.food", 0.20)
	v.SetDefault("engine.weights.cooking", 0.20)
	v.SetDefault("engine.weights.budget", 0.15)
	v.SetDefault("engine.weights.variety", 0.15)
	v.SetDefault("engine.weights.overlap", 0.10)
	v.SetDefault("engine.weights.cuisine", 0.10)
	v.SetDefault("engine.weights.pantry", 0.05)
	v.SetDefault("engine.weights.feedback", 0.05)
	v.SetDefault("engine.time_penalty_curve", "linear")
	v.SetDefault("engine.exploration_chance", 0.25)
	v.SetDefault("engine.novelty_bonus", 20)
	v.SetDefault("engine.unseen_cuisine_bonus", 25)
	v.SetDefault("engine.repetition_penalty", 5)
	v.SetDefault("engine.feedback_cooldown", "720h") // 30 days
	v.SetDefault("engine.max_refine_iterations", 10)

	// Catalog defaults
	v.SetDefault("catalog.seed_recipes", 200)
	v.SetDefault("catalog.seed_value", 1)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.health_check_path", "/health")
	v.SetDefault("monitoring.readiness_path", "/ready")

	// Rate limit defaults
	v.SetDefault("rate_limit.enable", true)
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.burst_size", 10)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate required fields
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	// Validate port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.Engine.TimePenaltyCurve {
	case "", "linear", "exponential", "stepped":
	default:
		return fmt.Errorf("engine.time_penalty_curve must be linear, exponential or stepped")
	}

	if c.Engine.ExplorationChance < 0 || c.Engine.ExplorationChance > 1 {
		return fmt.Errorf("engine.exploration_chance must be between 0 and 1")
	}

	weightSum := c.Engine.Weights.Food + c.Engine.Weights.Cooking +
		c.Engine.Weights.Budget + c.Engine.Weights.Variety +
		c.Engine.Weights.Overlap + c.Engine.Weights.Cuisine +
		c.Engine.Weights.Pantry + c.Engine.Weights.Feedback
	if weightSum <= 0 {
		return fmt.Errorf("engine.weights must sum to a positive value")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
