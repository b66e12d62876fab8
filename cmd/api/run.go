package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/auth"
	"github.com/mentari-platform/mentari/internal/brain"
	"github.com/mentari-platform/mentari/internal/calculator"
	"github.com/mentari-platform/mentari/internal/chat"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/config"
	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/gateway"
	"github.com/mentari-platform/mentari/internal/learners"
	"github.com/mentari-platform/mentari/internal/learning"
	mw "github.com/mentari-platform/mentari/internal/middleware"
	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/nlp"
	"github.com/mentari-platform/mentari/internal/questionbank"
	"github.com/mentari-platform/mentari/internal/quiz"
	"github.com/mentari-platform/mentari/internal/quota"
	iredis "github.com/mentari-platform/mentari/internal/redis"
	"github.com/mentari-platform/mentari/internal/reflection"
	"github.com/mentari-platform/mentari/internal/server"
	ixmpp "github.com/mentari-platform/mentari/internal/xmpp"
)

func run(ctx context.Context, cfg *config.Config) error {
	// PostgreSQL
	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		return err
	}
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisClient.Close()

	// NATS (optional)
	var (
		natsClient  *inats.Client
		publisher   *inats.Publisher
		consumerMgr *inats.ConsumerManager
	)
	if cfg.NATS.Enabled {
		natsClient, err = inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer natsClient.Close()
		publisher = inats.NewPublisher(natsClient.JetStream())
		consumerMgr = inats.NewConsumerManager(natsClient.JetStream())
	} else {
		slog.Info("NATS disabled, interaction events and XMPP are off")
	}

	bank, err := questionBank(cfg.Brain, pool)
	if err != nil {
		return err
	}

	analyticsRepo := analytics.NewRepository(pool)
	attempts := questionbank.NewPostgresAttempts(pool)
	if publisher != nil {
		attempts = questionbank.Announcing(attempts, publisher)
	}
	progress := analytics.NewService(attempts, analyticsRepo)

	cipher, err := reflection.NewCipher(cfg.Encryption.Key)
	if err != nil {
		return err
	}

	deps := brain.Deps{
		Annotator: nlp.NewEnhancer(classifier(cfg.Brain.Classifier)),
		Quiz: quiz.NewEngine(bank, quiz.NewRedisSessionStore(redisClient, cfg.Quiz.SessionTTL), attempts, quiz.EngineConfig{
			MaxQuestions:    cfg.Quiz.MaxQuestions,
			RecordAbandoned: cfg.Quiz.RecordAbandoned,
		}),
		Calculators: calculator.Default(),
		Learning: learning.NewStore(redisClient, learning.Config{
			TTL:            cfg.Learning.TTL,
			HistoryCap:     cfg.Learning.HistoryCap,
			ObservationCap: cfg.Learning.ObservationCap,
			InsightCap:     cfg.Learning.InsightCap,
			TruncateRunes:  cfg.Learning.TruncateRunes,
		}),
		Community: community.NewService(community.NewPostgresReader(pool)),
		Journal:   reflection.NewPostgresStore(pool, cipher),
		Progress:  progress,
	}
	if publisher != nil {
		deps.Events = publisher
	}
	tutor := brain.New(deps)

	quotaSvc := quota.NewService(quota.NewLimiter(redisClient), cfg.Quota.MessagesPerMinute)

	// Auth
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authSvc := auth.NewService(jwtManager, redisClient)
	learnerSvc := learners.NewService(learners.NewRepository(pool))
	authHandler := auth.NewHandler(authSvc, learnerSvc)

	chatHandler := chat.NewHandler(tutor, quotaSvc, chat.OriginPatterns(cfg.CORS.AllowedOrigins))
	topicHandler := questionbank.NewHandler(bank)
	progressHandler := analytics.NewHandler(progress)
	quotaHandler := quota.NewHandler(quotaSvc)

	var comp *ixmpp.Component
	var xmppHandler *ixmpp.Handler
	if cfg.XMPP.Enabled {
		xmppHandler = ixmpp.NewHandler(publisher)
		comp, err = ixmpp.NewComponent(cfg.XMPP, xmppHandler)
		if err != nil {
			return err
		}
	}

	authLimiter := mw.NewRateLimiter(redisClient, "auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)

	handlers := api.HandlerSet{
		Register: authHandler.Register,
		Login:    authHandler.Login,
		Refresh:  authHandler.Refresh,
		Logout:   authHandler.Logout,
		Me:       authHandler.Me,

		Chat:       chatHandler.Message,
		ChatStream: chatHandler.Stream,

		Topics:      topicHandler.Topics,
		Progress:    progressHandler.Progress,
		QuotaStatus: quotaHandler.GetQuota,

		AuthMiddleware: auth.Middleware(authSvc),
		OptionalAuth:   auth.OptionalMiddleware(authSvc),

		RedisHealthy: func(ctx context.Context) error {
			return iredis.HealthCheck(ctx, redisClient)
		},
	}
	if comp != nil {
		handlers.XMPPConnected = comp.Connected
	}
	router := api.NewRouter(pool, natsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimiter:    authLimiter.Middleware,
	}, handlers)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.New(cfg.Server, router).Run(ctx)
	})

	if consumerMgr != nil {
		g.Go(func() error {
			return analytics.NewConsumer(analyticsRepo, consumerMgr).Start(ctx)
		})
		g.Go(func() error {
			return gateway.New(tutor, quotaSvc, publisher, consumerMgr).Start(ctx)
		})
	}

	if comp != nil {
		g.Go(func() error {
			defer comp.Stop()
			return comp.Start(ctx)
		})
		g.Go(func() error {
			return ixmpp.NewOutboundRelay(xmppHandler, comp.Sender(), consumerMgr).Start(ctx)
		})
	}

	return g.Wait()
}

func questionBank(cfg config.BrainConfig, pool *pgxpool.Pool) (quiz.Bank, error) {
	if cfg.QuestionSource == config.BankYAML {
		bank, err := questionbank.LoadYAML(cfg.QuestionFile)
		if err != nil {
			return nil, err
		}
		slog.Info("question bank loaded from file", "path", cfg.QuestionFile)
		return bank, nil
	}
	return questionbank.NewPostgresBank(pool), nil
}

func classifier(name string) nlp.Classifier {
	if name == config.ClassifierPattern {
		return nlp.NewPatternClassifier()
	}
	return nlp.NewNaiveBayes()
}
