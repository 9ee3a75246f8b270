// Package server initializes and runs the pessoas application: it opens the
// database, applies migrations, starts the HTTP API and the metrics listener,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pessoas/internal/cryptox"
	"github.com/dmitrijs2005/pessoas/internal/logging"
	"github.com/dmitrijs2005/pessoas/internal/netx"
	"github.com/dmitrijs2005/pessoas/internal/server/config"
	"github.com/dmitrijs2005/pessoas/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pessoas/internal/server/rest"
	"github.com/dmitrijs2005/pessoas/internal/server/services"
	"github.com/dmitrijs2005/pessoas/internal/server/telemetry"
	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db, repomanager.NewPostgresRepositoryManager()), nil
}

// openDB opens a pool whose queries, execs and transactions are traced as
// child spans of the calling context.
func openDB(driverName, dsn string, opts ...otelsql.Option) (*sql.DB, error) {
	opts = append([]otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSpanOptions(otelsql.SpanOptions{OmitConnResetSession: true}),
	}, opts...)
	return otelsql.Open(driverName, dsn, opts...)
}

func newApp(c *config.Config, l logging.Logger, db *sql.DB, m repomanager.RepositoryManager) *App {
	return &App{config: c, logger: l.With("module", "app"), db: db, repomanager: m}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) passwordHasher() services.PasswordHasher {
	if app.config.HashPasswords {
		return cryptox.NewArgon2Hasher()
	}
	return cryptox.PlainHasher{}
}

// Run blocks until ctx is cancelled, a termination signal arrives or a
// server fails. Resources are released on every path.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	tp, shutdownTracer, err := telemetry.InitTracer(ctx, app.config)
	if err != nil {
		return err
	}
	defer app.shutdownTracer(shutdownTracer)

	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	app.logger.Info(ctx, "Schema is up to date")

	if app.config.DropSchemaOnShutdown {
		defer app.dropSchema()
	}

	svc := services.NewPessoaService(app.db, app.repomanager, app.passwordHasher(),
		tp.Tracer("github.com/dmitrijs2005/pessoas/internal/server/services"))
	collector := telemetry.NewCollector()
	httpServer := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, svc, collector, app.config.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Run(gctx)
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			app.logger.Info(gctx, "Starting metrics server", "address", app.config.MetricsAddr)
			return netx.ListenAndServe(gctx, telemetry.NewMetricsServer(app.config.MetricsAddr, collector), app.config.ShutdownTimeout)
		})
	}

	err = g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) shutdownTracer(shutdown telemetry.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		app.logger.Warn(ctx, "tracer shutdown error", "error", err)
	}
}

func (app *App) dropSchema() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	app.logger.Warn(ctx, "Dropping schema on shutdown")
	if err := app.repomanager.DropSchema(ctx, app.db); err != nil {
		app.logger.Error(ctx, "drop schema error", "error", err)
	}
}
