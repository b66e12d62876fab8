package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/brain"
	"github.com/mentari-platform/mentari/internal/calculator"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/config"
	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/gateway"
	"github.com/mentari-platform/mentari/internal/learning"
	"github.com/mentari-platform/mentari/internal/nlp"
	"github.com/mentari-platform/mentari/internal/questionbank"
	"github.com/mentari-platform/mentari/internal/quiz"
	iredis "github.com/mentari-platform/mentari/internal/redis"
	"github.com/mentari-platform/mentari/internal/reflection"
)

var chatOpts struct {
	dbPath   string
	bankPath string
	userID   string
	name     string
	useRedis bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the tutor in the terminal",
	Long: `Chat with the tutor in the terminal.

Quiz attempts and reflections are kept in a local SQLite file. The
learning context lives in an in-process Redis for the length of the
session unless --redis points the CLI at the configured server.

Type "exit" or press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatOpts.dbPath, "db", "mentari.db", "SQLite file for attempts and reflections")
	f.StringVar(&chatOpts.bankPath, "bank", "", "YAML question bank (default BRAIN_QUESTION_FILE)")
	f.StringVar(&chatOpts.userID, "user", "local", "learner id used for progress and reflections")
	f.StringVar(&chatOpts.name, "name", "", "display name the tutor greets you with")
	f.BoolVar(&chatOpts.useRedis, "redis", false, "keep the learning context in the configured Redis")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if chatOpts.bankPath != "" {
		cfg.Brain.QuestionFile = chatOpts.bankPath
	}

	ctx := cmd.Context()

	db, err := database.OpenSQLite(ctx, chatOpts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, closeRedis, err := chatRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeRedis()

	tutor, err := offlineBrain(ctx, cfg, db, rdb)
	if err != nil {
		return err
	}

	req := brain.Request{UserID: chatOpts.userID, SessionID: "cli:" + chatOpts.userID, DisplayName: chatOpts.name}
	return repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), tutor, req)
}

// chatRedis returns the configured Redis with --redis, otherwise an
// in-process server that disappears on exit.
func chatRedis(ctx context.Context, cfg config.RedisConfig) (redis.Cmdable, func(), error) {
	if chatOpts.useRedis {
		client, err := iredis.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("starting in-process redis: %w", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, func() {
		client.Close()
		mr.Close()
	}, nil
}

func offlineBrain(ctx context.Context, cfg *config.Config, db *sql.DB, rdb redis.Cmdable) (*brain.Brain, error) {
	bank, err := questionbank.LoadYAML(cfg.Brain.QuestionFile)
	if err != nil {
		return nil, err
	}
	attempts, err := questionbank.NewSQLiteAttempts(ctx, db)
	if err != nil {
		return nil, err
	}

	var journal reflection.Store
	if cfg.Encryption.Key == "" {
		slog.Warn("ENCRYPTION_KEY not set, reflections are disabled")
	} else {
		cipher, err := reflection.NewCipher(cfg.Encryption.Key)
		if err != nil {
			return nil, err
		}
		store, err := reflection.NewSQLiteStore(ctx, db, cipher)
		if err != nil {
			return nil, err
		}
		journal = store
	}

	var cls nlp.Classifier = nlp.NewNaiveBayes()
	if cfg.Brain.Classifier == config.ClassifierPattern {
		cls = nlp.NewPatternClassifier()
	}

	return brain.New(brain.Deps{
		Annotator: nlp.NewEnhancer(cls),
		Quiz: quiz.NewEngine(bank, quiz.NewMemorySessionStore(), attempts, quiz.EngineConfig{
			MaxQuestions:    cfg.Quiz.MaxQuestions,
			RecordAbandoned: cfg.Quiz.RecordAbandoned,
		}),
		Calculators: calculator.Default(),
		Learning: learning.NewStore(rdb, learning.Config{
			TTL:            cfg.Learning.TTL,
			HistoryCap:     cfg.Learning.HistoryCap,
			ObservationCap: cfg.Learning.ObservationCap,
			InsightCap:     cfg.Learning.InsightCap,
			TruncateRunes:  cfg.Learning.TruncateRunes,
		}),
		Community: community.NewService(&community.StaticReader{}),
		Journal:   journal,
		Progress:  analytics.NewService(attempts, nil),
	}), nil
}

type responder interface {
	Respond(ctx context.Context, req brain.Request) brain.Envelope
}

// repl reads one message per line and prints the plain-text reply. It
// returns on "exit", end of input or ctx cancellation.
func repl(ctx context.Context, in io.Reader, out io.Writer, tutor responder, base brain.Request) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	fmt.Fprint(out, "you> ")
	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("reading input: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			fmt.Fprint(out, "you> ")
			continue
		case "exit", "quit", "/quit":
			return nil
		}

		req := base
		req.Message = line
		env := tutor.Respond(ctx, req)

		fmt.Fprintf(out, "\nmentari> %s\n", gateway.PlainText(env))
		if env.QuizStatus != "" {
			fmt.Fprintf(out, "[quiz %s]\n", env.QuizStatus)
		}
		fmt.Fprint(out, "\nyou> ")
	}
}
