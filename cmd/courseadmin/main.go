package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/cli"
	"github.com/naumanrao/courseadmin/internal/config"
	"github.com/naumanrao/courseadmin/internal/db"
	"github.com/naumanrao/courseadmin/internal/logging"
	"github.com/naumanrao/courseadmin/internal/repository"
	"github.com/naumanrao/courseadmin/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	return cli.Execute(ctx, app, os.Args[1:])
}

func wire(ctx context.Context) (*cli.App, func(), error) {
	cfg := config.Load()

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("starting logger: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
		_ = logger.Sync()
	}

	// Session values live for one login; local values outlive logout.
	sessionValues := repository.NewSQLiteSessionValues(database)
	localValues := repository.NewSQLiteLocalValues(database)

	codec, err := session.LoadCodec(ctx, localValues)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("loading session keys: %w", err)
	}
	store := session.NewStore(sessionValues, codec)
	prefs := session.NewPreferences(localValues, codec)

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = logging.NewAPIObserver(logger.Named("api"))
	}
	client, err := api.NewClient(cfg, store, observer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	app := &cli.App{
		Config:  cfg,
		Logger:  logger,
		Auth:    session.NewAuthenticator(client, store, prefs, logger.Named("auth")),
		Guard:   session.NewGuard(store, cfg.SessionMaxAge(), logger.Named("guard")),
		Prefs:   prefs,
		Courses: client,
		Lessons: client,
	}

	// Bare invocation opens the console only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return app, cleanup, nil
}
