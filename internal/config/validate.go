package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// Encryption key: must be exactly 64 hex chars (32 bytes)
	if c.Encryption.Key == "" {
		errs = append(errs, "ENCRYPTION_KEY is required")
	} else if len(c.Encryption.Key) != 64 {
		errs = append(errs, "ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes)")
	} else if _, err := hex.DecodeString(c.Encryption.Key); err != nil {
		errs = append(errs, "ENCRYPTION_KEY must be valid hex")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "NATS_URL is required when NATS_ENABLED is true")
	}

	if c.XMPP.Enabled {
		if !c.NATS.Enabled {
			errs = append(errs, "XMPP_ENABLED requires NATS_ENABLED")
		}
		if c.XMPP.ComponentSecret == "" {
			errs = append(errs, "XMPP_COMPONENT_SECRET is required when XMPP_ENABLED is true")
		}
		if c.XMPP.ComponentPort < 1 || c.XMPP.ComponentPort > 65535 {
			errs = append(errs, fmt.Sprintf("XMPP_COMPONENT_PORT must be 1–65535, got %d", c.XMPP.ComponentPort))
		}
	}

	// Brain
	if !slices.Contains([]string{ClassifierBayes, ClassifierPattern}, c.Brain.Classifier) {
		errs = append(errs, fmt.Sprintf("BRAIN_CLASSIFIER must be %q or %q, got %q", ClassifierBayes, ClassifierPattern, c.Brain.Classifier))
	}
	switch c.Brain.QuestionSource {
	case BankPostgres:
	case BankYAML:
		if c.Brain.QuestionFile == "" {
			errs = append(errs, "BRAIN_QUESTION_FILE is required when BRAIN_QUESTION_SOURCE is yaml")
		}
	default:
		errs = append(errs, fmt.Sprintf("BRAIN_QUESTION_SOURCE must be %q or %q, got %q", BankPostgres, BankYAML, c.Brain.QuestionSource))
	}

	if c.Learning.HistoryCap < 1 {
		errs = append(errs, "LEARNING_HISTORY_CAP must be positive")
	}
	if c.Learning.ObservationCap < 1 {
		errs = append(errs, "LEARNING_OBSERVATION_CAP must be positive")
	}
	if c.Learning.InsightCap < 1 {
		errs = append(errs, "LEARNING_INSIGHT_CAP must be positive")
	}
	if c.Learning.TruncateRunes < 1 {
		errs = append(errs, "LEARNING_TRUNCATE_RUNES must be positive")
	}
	if c.Learning.TTL <= 0 {
		errs = append(errs, "LEARNING_TTL must be positive")
	}
	if c.Quiz.MaxQuestions < 1 {
		errs = append(errs, "QUIZ_MAX_QUESTIONS must be positive")
	}
	if c.Quiz.SessionTTL <= 0 {
		errs = append(errs, "QUIZ_SESSION_TTL must be positive")
	}
	if c.Quota.MessagesPerMinute < 1 {
		errs = append(errs, "QUOTA_MESSAGES_PER_MINUTE must be positive")
	}

	// Wildcard CORS: warn only
	if slices.Contains(c.CORS.AllowedOrigins, "*") {
		slog.Warn("CORS_ALLOWED_ORIGINS contains *, credentials will not be sent cross-origin")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
