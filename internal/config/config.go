package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detector
	DetectorProvider string `envconfig:"DETECTOR_PROVIDER" default:"mock"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Sessions
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"5m"`
	FramesPerMin  int           `envconfig:"FRAMES_PER_MINUTE" default:"600"`
	MaxImageBytes int           `envconfig:"MAX_IMAGE_BYTES" default:"5242880"`

	// Challenge defaults, overridable per session
	RequiredFrames       int           `envconfig:"CHALLENGE_REQUIRED_FRAMES" default:"3"`
	PhaseDuration        time.Duration `envconfig:"CHALLENGE_PHASE_DURATION" default:"1500ms"`
	StraightThreshold    float64       `envconfig:"CHALLENGE_STRAIGHT_THRESHOLD" default:"10"`
	TurnThreshold        float64       `envconfig:"CHALLENGE_TURN_THRESHOLD" default:"25"`
	ErrorTimeout         time.Duration `envconfig:"CHALLENGE_ERROR_TIMEOUT" default:"2s"`
	MaxConsecutiveErrors int           `envconfig:"CHALLENGE_MAX_CONSECUTIVE_ERRORS" default:"5"`
	CircleSize           int           `envconfig:"CHALLENGE_CIRCLE_SIZE" default:"250"`

	// Completion callback (optional)
	CallbackURL    string `envconfig:"CALLBACK_URL"`
	CallbackSecret string `envconfig:"CALLBACK_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ChallengeConfig().Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// ChallengeConfig assembles the default liveness challenge parameters.
func (c *Config) ChallengeConfig() liveness.Config {
	return liveness.Config{
		RequiredFrames:       c.RequiredFrames,
		PhaseDuration:        c.PhaseDuration,
		StraightThreshold:    c.StraightThreshold,
		TurnThreshold:        c.TurnThreshold,
		ErrorTimeout:         c.ErrorTimeout,
		MaxConsecutiveErrors: c.MaxConsecutiveErrors,
		CircleSize:           c.CircleSize,
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
