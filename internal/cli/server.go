package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/config"
	filestore "github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/file"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/memory"
	pgloader "github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/postgres"
	redisinfra "github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/redis"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/sheets"
	transport "github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trials server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// applyEnvOverrides lets deployment environments point at their backends
// without editing the config file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("APOGEE_LEADERBOARD_FILE"); v != "" {
		cfg.Leaderboard.File = v
	}
	if v := os.Getenv("APOGEE_SHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
		cfg.Sheets.Enabled = true
	}
	if v := os.Getenv("APOGEE_SHEET_ENABLED"); v != "" {
		cfg.Sheets.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && cfg.Sheets.CredentialsFile == "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"); v != "" && cfg.Sheets.CredentialsJSON == "" {
		cfg.Sheets.CredentialsJSON = v
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		// Config is optional; defaults cover local runs.
		log.Printf("config %s not loaded (%v), using defaults", configPath, err)
		cfg = config.Config{}
	}
	applyEnvOverrides(&cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.ContentLoader = memory.NewStaticContentLoader(memory.DefaultMissions(), memory.DefaultQuizPool())
	if pool != nil {
		loader = pgloader.NewContentLoader(pool)
	}
	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	content := memory.NewContentRepository(loader, contentTTL)

	var sheetsClient *sheets.Client
	if cfg.Sheets.Enabled && cfg.Sheets.SpreadsheetID != "" {
		sheetsClient, err = sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile, []byte(cfg.Sheets.CredentialsJSON))
		if err != nil {
			log.Printf("sheets client unavailable, continuing without it: %v", err)
			sheetsClient = nil
		}
	}

	leaderboardFile := cfg.Leaderboard.File
	if leaderboardFile == "" {
		leaderboardFile = filestore.DefaultPath
	}
	var store app.LeaderboardStore = filestore.NewLeaderboardStore(leaderboardFile)
	if sheetsClient != nil && cfg.Sheets.Leaderboard {
		store = sheets.NewLeaderboardStore(sheetsClient)
	}
	if redisClient != nil {
		store = redisinfra.NewLeaderboardCache(redisClient, store, redisTTL)
	}

	var sink app.ResponseSink = memory.NewNopSink()
	if sheetsClient != nil {
		sink = sheets.NewSink(sheetsClient)
	}

	var sessions app.SessionRepository = memory.NewSessionStore()
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	}

	service := app.NewTrialsService(sessions, content, store, sink, app.Options{
		MissionTimer:   config.TTLDuration(cfg.Game.MissionTimer, 0),
		QuestionTimer:  config.TTLDuration(cfg.Game.QuestionTimer, 0),
		QuizSampleSize: cfg.Game.QuizQuestions,
	})

	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/ws/mission", wsHandler.ServeMission)
	mux.HandleFunc("/ws/quiz", wsHandler.ServeQuiz)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trials server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
