// Package server wires configuration, storage, services and the REST
// transport into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/config"
	"github.com/dmitrijs2005/contactkeeper/internal/server/mail"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactkeeper/internal/server/rest"
	"github.com/dmitrijs2005/contactkeeper/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrSecretKeyMissing = errors.New("secret key is not configured")

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, db, repomanager.NewPostgresRepositoryManager(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		return nil, ErrSecretKeyMissing
	}
	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "JWT secret is the built-in development default; set JWT_SECRET")
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	issuer := auth.NewIssuer(c.SecretKey, c.AccessTokenValidityDuration)
	sessions := services.NewSingleSlotSessions(db, m, issuer)

	deps := rest.Deps{
		Gate:     services.NewAuthenticator(issuer, sessions),
		Accounts: services.NewUserService(db, m, c, sessions, newMailer(c, logger), logger),
		Avatars:  services.NewAvatarService(db, m, c, logger),
		Contacts: services.NewContactService(db, m, logger),
	}

	handler := rest.NewRouter(deps, c.CORSOrigin, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c.EndpointAddrHTTP, handler, logger),
	}, nil
}

// newMailer delivers through SMTP when a relay is configured and logs the
// messages otherwise.
func newMailer(c *config.Config, logger logging.Logger) mail.Sender {
	if c.SMTPHost == "" || c.SMTPUser == "" {
		return mail.NewLogSender(logger)
	}
	return mail.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.SMTPFrom)
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

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
