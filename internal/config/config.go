package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/contactfaris48-art/fms-backend/internal/database"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
)

// Config holds all configuration for the file management backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Frontend origin, used for magic links, post-login redirects and CORS.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"fms"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"fms_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"fms_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (session store)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// AWS
	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL" envDefault:"no-reply@localhost"`
	S3Bucket     string `env:"S3_BUCKET" envDefault:"fms-files"`

	// Cognito / OIDC. Missing values abort startup; there is no degraded mode
	// without an identity provider.
	CognitoUserPoolID   string `env:"COGNITO_USER_POOL_ID"`
	CognitoClientID     string `env:"COGNITO_CLIENT_ID"`
	CognitoClientSecret string `env:"COGNITO_CLIENT_SECRET"`
	CognitoDomain       string `env:"COGNITO_DOMAIN"`
	OIDCRedirectURI     string `env:"OIDC_REDIRECT_URI"`
	OIDCLogoutURI       string `env:"OIDC_LOGOUT_URI"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	for name, value := range map[string]string{
		"COGNITO_USER_POOL_ID": cfg.CognitoUserPoolID,
		"COGNITO_CLIENT_ID":    cfg.CognitoClientID,
		"COGNITO_DOMAIN":       cfg.CognitoDomain,
		"OIDC_REDIRECT_URI":    cfg.OIDCRedirectURI,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s must be set", name)
		}
	}

	if cfg.OIDCLogoutURI == "" {
		cfg.OIDCLogoutURI = cfg.FrontendURL
	}

	return cfg, nil
}

// Postgres returns the connection settings for the database pool.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,

		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Redis returns the connection settings for the session store.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// OIDC returns the federated provider settings.
func (c *Config) OIDC() oidc.Config {
	return oidc.Config{
		Region:       c.AWSRegion,
		UserPoolID:   c.CognitoUserPoolID,
		ClientID:     c.CognitoClientID,
		ClientSecret: c.CognitoClientSecret,
		Domain:       c.CognitoDomain,
		RedirectURI:  c.OIDCRedirectURI,
		LogoutURI:    c.OIDCLogoutURI,
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
