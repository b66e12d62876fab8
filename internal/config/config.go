package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	NATS       NATSConfig
	XMPP       XMPPConfig
	JWT        JWTConfig
	Encryption EncryptionConfig
	Log        LogConfig
	CORS       CORSConfig
	Brain      BrainConfig
	Learning   LearningConfig
	Quiz       QuizConfig
	Quota      QuotaConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32

	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL     string
	Enabled bool
}

// XMPPConfig configures the external component learners chat through.
type XMPPConfig struct {
	Enabled         bool
	Domain          string
	ComponentHost   string
	ComponentPort   int
	ComponentName   string
	ComponentSecret string
}

func (c XMPPConfig) ComponentAddr() string {
	return fmt.Sprintf("%s:%d", c.ComponentHost, c.ComponentPort)
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type EncryptionConfig struct {
	Key string
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Question bank sources.
const (
	BankPostgres = "postgres"
	BankYAML     = "yaml"
)

// Intent classifiers.
const (
	ClassifierBayes   = "bayes"
	ClassifierPattern = "pattern"
)

// BrainConfig selects the intent classifier and where quiz questions come
// from. QuestionFile is only read when QuestionSource is BankYAML.
type BrainConfig struct {
	Classifier     string
	QuestionSource string
	QuestionFile   string
}

type LearningConfig struct {
	TTL            time.Duration
	HistoryCap     int
	ObservationCap int
	InsightCap     int
	TruncateRunes  int // stored message length
}

type QuizConfig struct {
	SessionTTL      time.Duration
	MaxQuestions    int
	RecordAbandoned bool
}

type QuotaConfig struct {
	MessagesPerMinute int
}

type RateLimitConfig struct {
	AuthRequests int
	AuthWindow   int
}

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads the given dotenv file, if present, and then the process
// environment, which takes precedence.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	// Missing .env is fine
	_ = k.Load(file.Provider(path), dotenv.ParserEnv("", ".", envKey))

	err := k.Load(env.Provider("", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),

			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL:     k.String("nats.url"),
			Enabled: boolOr(k, "nats.enabled", true),
		},
		XMPP: XMPPConfig{
			Enabled:         k.Bool("xmpp.enabled"),
			Domain:          k.String("xmpp.domain"),
			ComponentHost:   k.String("xmpp.component.host"),
			ComponentPort:   k.Int("xmpp.component.port"),
			ComponentName:   k.String("xmpp.component.name"),
			ComponentSecret: k.String("xmpp.component.secret"),
		},
		JWT: JWTConfig{
			AccessSecret:  k.String("jwt.access.secret"),
			RefreshSecret: k.String("jwt.refresh.secret"),
		},
		Encryption: EncryptionConfig{
			Key: k.String("encryption.key"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(k.String("cors.allowed.origins")),
		},
		Brain: BrainConfig{
			Classifier:     strings.ToLower(k.String("brain.classifier")),
			QuestionSource: strings.ToLower(k.String("brain.question.source")),
			QuestionFile:   k.String("brain.question.file"),
		},
		Learning: LearningConfig{
			HistoryCap:     k.Int("learning.history.cap"),
			ObservationCap: k.Int("learning.observation.cap"),
			InsightCap:     k.Int("learning.insight.cap"),
			TruncateRunes:  k.Int("learning.truncate.runes"),
		},
		Quiz: QuizConfig{
			MaxQuestions:    k.Int("quiz.max.questions"),
			RecordAbandoned: k.Bool("quiz.record.abandoned"),
		},
		Quota: QuotaConfig{
			MessagesPerMinute: k.Int("quota.messages.per.minute"),
		},
		RateLimit: RateLimitConfig{
			AuthRequests: k.Int("ratelimit.auth.requests"),
			AuthWindow:   k.Int("ratelimit.auth.window"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "mentari"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "mentari"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.XMPP.Domain == "" {
		cfg.XMPP.Domain = "mentari.local"
	}
	if cfg.XMPP.ComponentHost == "" {
		cfg.XMPP.ComponentHost = "localhost"
	}
	if cfg.XMPP.ComponentPort == 0 {
		cfg.XMPP.ComponentPort = 5275
	}
	if cfg.XMPP.ComponentName == "" {
		cfg.XMPP.ComponentName = "brain." + cfg.XMPP.Domain
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Brain.Classifier == "" {
		cfg.Brain.Classifier = ClassifierBayes
	}
	if cfg.Brain.QuestionSource == "" {
		cfg.Brain.QuestionSource = BankPostgres
	}
	if cfg.Brain.QuestionFile == "" {
		cfg.Brain.QuestionFile = "data/questionbank.yaml"
	}
	if cfg.Learning.HistoryCap == 0 {
		cfg.Learning.HistoryCap = 50
	}
	if cfg.Learning.ObservationCap == 0 {
		cfg.Learning.ObservationCap = 10
	}
	if cfg.Learning.InsightCap == 0 {
		cfg.Learning.InsightCap = 10
	}
	if cfg.Learning.TruncateRunes == 0 {
		cfg.Learning.TruncateRunes = 200
	}
	if cfg.Quiz.MaxQuestions == 0 {
		cfg.Quiz.MaxQuestions = 10
	}
	if cfg.Quota.MessagesPerMinute == 0 {
		cfg.Quota.MessagesPerMinute = 30
	}
	if cfg.RateLimit.AuthRequests == 0 {
		cfg.RateLimit.AuthRequests = 10
	}
	if cfg.RateLimit.AuthWindow == 0 {
		cfg.RateLimit.AuthWindow = 60
	}

	// Parse durations
	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"jwt.access.expiry", "15m", &cfg.JWT.AccessExpiry},
		{"jwt.refresh.expiry", "168h", &cfg.JWT.RefreshExpiry},
		{"learning.ttl", "168h", &cfg.Learning.TTL},
		{"quiz.session.ttl", "2h", &cfg.Quiz.SessionTTL},
	}
	for _, d := range durations {
		raw := k.String(d.key)
		if raw == "" {
			raw = d.def
		}
		*d.dest, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d.key, err)
		}
	}

	return cfg, nil
}

// envKey maps DB_MAX_CONNS to db.max.conns.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", "."))
}

func boolOr(k *koanf.Koanf, key string, def bool) bool {
	if !k.Exists(key) {
		return def
	}
	return k.Bool(key)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
