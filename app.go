package postbook

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/postbook/contents"
	"github.com/nasermirzaei89/postbook/database/memory"
	"github.com/nasermirzaei89/postbook/database/sqlite3"
	"github.com/nasermirzaei89/postbook/server"
	"github.com/nasermirzaei89/postbook/web"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

type App struct {
	server  *server.Server
	handler *web.Handler
	db      *sql.DB
}

type UnknownStoreDriverError struct {
	Driver string
}

func (err UnknownStoreDriverError) Error() string {
	return fmt.Sprintf("unknown store driver %q", err.Driver)
}

func NewApp(ctx context.Context) (*App, error) {
	postRepo, db, err := newPostRepository(ctx, env.GetString("STORE_DRIVER", StoreDriverMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to create post repository: %w", err)
	}

	contentsSvc := contents.NewService(postRepo)

	app := &App{
		server:  newServer(),
		handler: web.NewHandler(contentsSvc),
		db:      db,
	}

	return app, nil
}

func (app *App) Handler() *web.Handler {
	return app.handler
}

func (app *App) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	defer app.Close(ctx)

	err := app.server.Run(ctx, app.handler)
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}

func (app *App) Close(ctx context.Context) {
	if app.db == nil {
		return
	}

	err := app.db.Close()
	if err != nil {
		slog.ErrorContext(ctx, "failed to close database", "error", err)
	}

	app.db = nil
}

// newPostRepository returns the db handle too when the driver opened one, so the app can close it.
func newPostRepository(ctx context.Context, driver string) (contents.PostRepository, *sql.DB, error) {
	switch driver {
	case StoreDriverMemory:
		return memory.NewPostRepository(), nil, nil
	case StoreDriverSQLite:
		db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", sqlite3.DefaultDSN))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection: %w", err)
		}

		err = sqlite3.MigrateUp(ctx, db)
		if err != nil {
			_ = db.Close()

			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		return sqlite3.NewPostRepository(db), db, nil
	default:
		return nil, nil, &UnknownStoreDriverError{Driver: driver}
	}
}

func newServer() *server.Server {
	server := &server.Server{
		Port: env.GetString("PORT", server.DefaultPort),
		Host: env.GetString("HOST", ""),
		TLS: server.ServerTLS{
			Enabled: env.GetBool("TLS_ENABLED", false),
			Mode:    env.GetString("TLS_MODE", server.DefaultTLSMode),
			AutoCert: &server.ServerTLSAutoCert{
				CacheDir: env.GetString("TLS_AUTOCERT_CACHE_DIR", "./cert-cache"),
				Domains:  env.GetStringSlice("TLS_AUTOCERT_DOMAINS", []string{}),
				Email:    env.GetString("TLS_AUTOCERT_EMAIL", ""),
			},
			CertFile: env.GetString("TLS_CERT_FILE", ""),
			KeyFile:  env.GetString("TLS_KEY_FILE", ""),
		},
	}

	return server
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
