package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "mentari",
			Password: "secret", Name: "mentari", SSLMode: "disable", MaxConns: 25,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		NATS:  NATSConfig{URL: "nats://localhost:4222", Enabled: true},
		JWT: JWTConfig{
			AccessSecret:  "access-secret-that-is-at-least-32-chars!",
			RefreshSecret: "refresh-secret-that-is-at-least-32-chr!",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
		},
		Encryption: EncryptionConfig{Key: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"},
		Brain:      BrainConfig{Classifier: ClassifierBayes, QuestionSource: BankPostgres},
		Learning:   LearningConfig{TTL: 168 * time.Hour, HistoryCap: 50, ObservationCap: 10, InsightCap: 10, TruncateRunes: 200},
		Quiz:       QuizConfig{SessionTTL: 2 * time.Hour, MaxQuestions: 10},
		Quota:      QuotaConfig{MessagesPerMinute: 30},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_JWTAccessSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "short"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_ACCESS_SECRET") {
		t.Fatalf("expected JWT_ACCESS_SECRET error, got: %v", err)
	}
}

func TestValidate_JWTSecretsMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "the-same-secret-that-is-at-least-32-chars!"
	cfg.JWT.RefreshSecret = "the-same-secret-that-is-at-least-32-chars!"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected 'must differ' error, got: %v", err)
	}
}

func TestValidate_EncryptionKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"missing", "", "ENCRYPTION_KEY is required"},
		{"wrong length", "tooshort", "64 hex characters"},
		{"not hex", strings.Repeat("z", 64), "valid hex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Encryption.Key = tt.key
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_InvalidPorts(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.DB.Port = 99999
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected port validation errors")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected SERVER_PORT error in: %v", err)
	}
	if !strings.Contains(err.Error(), "DB_PORT") {
		t.Errorf("expected DB_PORT error in: %v", err)
	}
}

func TestValidate_XMPPNeedsSecretAndNATS(t *testing.T) {
	cfg := validConfig()
	cfg.XMPP = XMPPConfig{Enabled: true, ComponentHost: "localhost", ComponentPort: 5275}
	cfg.NATS.Enabled = false
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected XMPP validation errors")
	}
	for _, substr := range []string{"XMPP_COMPONENT_SECRET", "requires NATS_ENABLED"} {
		if !strings.Contains(err.Error(), substr) {
			t.Errorf("expected %q in error: %v", substr, err)
		}
	}
}

func TestValidate_BrainSelections(t *testing.T) {
	cfg := validConfig()
	cfg.Brain = BrainConfig{Classifier: "neural", QuestionSource: BankYAML}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected brain validation errors")
	}
	for _, substr := range []string{"BRAIN_CLASSIFIER", "BRAIN_QUESTION_FILE"} {
		if !strings.Contains(err.Error(), substr) {
			t.Errorf("expected %q in error: %v", substr, err)
		}
	}

	cfg.Brain = BrainConfig{Classifier: ClassifierPattern, QuestionSource: "csv"}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "BRAIN_QUESTION_SOURCE") {
		t.Fatalf("expected BRAIN_QUESTION_SOURCE error, got: %v", err)
	}
}

func TestValidate_LearningBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Learning.InsightCap = 0
	cfg.Learning.TruncateRunes = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected learning validation errors")
	}
	for _, substr := range []string{"LEARNING_INSIGHT_CAP", "LEARNING_TRUNCATE_RUNES"} {
		if !strings.Contains(err.Error(), substr) {
			t.Errorf("expected %q in error: %v", substr, err)
		}
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 0},
		DB:     DBConfig{Port: 5432},
		Redis:  RedisConfig{Port: 6379},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}
	errStr := err.Error()
	for _, substr := range []string{
		"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "ENCRYPTION_KEY", "DB_PASSWORD", "SERVER_PORT",
		"QUIZ_MAX_QUESTIONS", "LEARNING_TTL", "QUOTA_MESSAGES_PER_MINUTE",
	} {
		if !strings.Contains(errStr, substr) {
			t.Errorf("expected %q in error: %s", substr, errStr)
		}
	}
}
