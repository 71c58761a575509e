package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SRSConfig exposes the scheduling knobs that are product decisions rather
// than algorithm constants. Zero values fall back to the algorithm defaults.
type SRSConfig struct {
	// BoxPenaltyIncorrect is how many boxes a wrong answer drops.
	BoxPenaltyIncorrect int `mapstructure:"box_penalty_incorrect" validate:"gte=0,lte=5"`
	// BoxResetOnDontKnow sends the box back to 1 on a don't-know answer
	// instead of applying the incorrect penalty.
	BoxResetOnDontKnow *bool `mapstructure:"box_reset_on_dont_know"`
}
