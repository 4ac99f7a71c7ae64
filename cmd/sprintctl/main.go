package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sprintos.backend/internal/config"
	"sprintos.backend/internal/infrastructure/chat"
	"sprintos.backend/internal/infrastructure/datasources/postgres"
	"sprintos.backend/internal/infrastructure/realtime"
	"sprintos.backend/internal/infrastructure/repositories"
	"sprintos.backend/internal/usecases"
	"sprintos.backend/pkg/logger"
	"sprintos.backend/pkg/redis"
)

const version = "0.1.0"

var (
	openPostgres = postgres.Open
	openSQLite   = func(path string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	}
	connectRedis = redis.Init
)

// cliRuntime is the wired application a command runs against
type cliRuntime struct {
	db        *gorm.DB
	teams     *usecases.TeamUsecase
	invites   *usecases.InviteUsecase
	tasks     *usecases.TaskUsecase
	notes     *usecases.NoteUsecase
	summaries *usecases.SummaryUsecase
}

type cliDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config, sqlitePath string) (*cliRuntime, io.Closer, error)
	in      io.Reader
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newRuntime(db *gorm.DB, publisher usecases.ChangePublisher, completer usecases.Completer, activeTeams usecases.ActiveTeamStore) *cliRuntime {
	teamRepo := repositories.NewTeamRepository(db)
	memberRepo := repositories.NewTeamMemberRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	uow := repositories.NewUnitOfWork(db)

	tasks := usecases.NewTaskUsecase(taskRepo, memberRepo, publisher)
	return &cliRuntime{
		db:        db,
		teams:     usecases.NewTeamUsecase(teamRepo, memberRepo, uow, activeTeams, publisher),
		invites:   usecases.NewInviteUsecase(teamRepo, memberRepo, uow, publisher),
		tasks:     tasks,
		notes:     usecases.NewNoteUsecase(noteRepo, publisher),
		summaries: usecases.NewSummaryUsecase(noteRepo, repositories.NewSummaryRepository(db), tasks, completer, publisher),
	}
}

func prepareRuntime(cfg *config.Config, sqlitePath string) (*cliRuntime, io.Closer, error) {
	logger.Init(cfg.Server.Env)

	var db *gorm.DB
	var err error
	if sqlitePath != "" {
		db, err = openSQLite(sqlitePath)
	} else if !cfg.Database.IsConfigured() {
		return nil, nil, fmt.Errorf("database is not configured: set DB_HOST and DB_NAME or pass --sqlite")
	} else {
		db, err = openPostgres(cfg.Database)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
	}

	// Changes made here reach running servers through redis when it is available
	hub := realtime.NewHub(cfg.Realtime.BufferSize)
	var publisher usecases.ChangePublisher = hub
	var activeTeams usecases.ActiveTeamStore
	if err := connectRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Warn(context.Background(), "Redis unavailable, changes stay local", zap.Error(err))
	} else {
		publisher = realtime.NewRedisBroker(hub, cfg.Realtime.Channel)
		activeTeams = redis.NewActiveTeamStore(cfg.Realtime.ActiveTeamTTL)
	}

	var completer usecases.Completer
	client := chat.NewClient(chat.Options{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
		MaxRetries:  cfg.AI.MaxRetries,
	})
	if client.Configured() {
		completer = client
	}

	return newRuntime(db, publisher, completer, activeTeams), sqlDB, nil
}

func defaultDeps() cliDeps {
	return cliDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: prepareRuntime,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

func newRootCmd(deps cliDeps) *cobra.Command {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		deps.prepare = prepareRuntime
	}
	if deps.in == nil {
		deps.in = os.Stdin
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	rootCmd := &cobra.Command{
		Use:           "sprintctl",
		Short:         "Operator tool for the SprintOS backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(deps.out)
	rootCmd.SetIn(deps.in)
	rootCmd.PersistentFlags().String("sqlite", "", "use a local sqlite database file instead of postgres")

	rootCmd.AddCommand(migrateCmd(deps))
	rootCmd.AddCommand(parseActionsCmd(deps))
	rootCmd.AddCommand(hashPasswordCmd(deps))
	rootCmd.AddCommand(summarizeCmd(deps))
	rootCmd.AddCommand(regenerateCodeCmd(deps))
	rootCmd.AddCommand(teamsCmd(deps))
	rootCmd.AddCommand(tasksCmd(deps))
	rootCmd.AddCommand(toggleCmd(deps))

	return rootCmd
}

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		log.Fatal(err)
	}
}
