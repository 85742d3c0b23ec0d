// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	RabbitMQ RabbitMQConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Server   ServerConfig
	Fetch    FetchConfig
	Quota    QuotaConfig
	Auth     AuthConfig
}

// LoggingConfig contains logging configuration. An empty File logs to
// stdout in development format.
type LoggingConfig struct {
	Level string
	File  string
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and queue configuration.
// An empty Host disables event publishing entirely.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// FetchConfig contains thumbnail CDN and title lookup configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type FetchConfig struct {
	CDNBaseURL    string
	OEmbedBaseURL string
	Timeout       time.Duration
	BatchSize     int
	MaxCSVRows    int
}

// QuotaConfig contains guest usage limits.
type QuotaConfig struct {
	GuestDailyLimit int
}

// AuthConfig contains API key authentication configuration.
type AuthConfig struct {
	APIKeys []string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "thumbgrab")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// RabbitMQ (disabled unless a host is configured)
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "thumbnails.events")
	viper.SetDefault("rabbitmq.queue", "thumbnails.downloads")
	viper.SetDefault("rabbitmq.routingkey", "download.recorded")

	// Fetch
	viper.SetDefault("fetch.cdnbaseurl", "https://i.ytimg.com")
	viper.SetDefault("fetch.oembedbaseurl", "https://noembed.com")
	viper.SetDefault("fetch.timeout", 15*time.Second)
	viper.SetDefault("fetch.batchsize", 5)
	viper.SetDefault("fetch.maxcsvrows", 5000)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")

	// Quota
	viper.SetDefault("quota.guestdailylimit", 10)

	// Auth
	viper.SetDefault("auth.apikeys", []string{})
}
