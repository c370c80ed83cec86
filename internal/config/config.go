// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Sweep    SweepConfig    `mapstructure:"sweep"    validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and token settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// SweepConfig controls the overdue task sweep.
type SweepConfig struct {
	// Schedule is a cron expression for the periodic sweep trigger.
	// An empty schedule disables the internal scheduler, leaving the sweep
	// to external triggers (the admin endpoint).
	Schedule string `mapstructure:"schedule"`
}

// NotifyConfig configures the outbound notification channel. When Host is
// empty, notifications are written to the log instead of SMTP.
type NotifyConfig struct {
	Host string `mapstructure:"smtp_host"`
	Port int    `mapstructure:"smtp_port" validate:"omitempty,gt=0,lt=65536"`
	From string `mapstructure:"smtp_from" validate:"omitempty,email"`
}
