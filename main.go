package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tunebox/internal/auth"
	"tunebox/internal/config"
	"tunebox/internal/database"
	"tunebox/internal/logging"
	"tunebox/internal/notify"
	"tunebox/internal/server"
	"tunebox/internal/services"
	"tunebox/internal/storage"
	"tunebox/pkg/rabbitmq"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	if err := newApp(os.Stderr).Run(context.Background(), os.Args); err != nil {
		log.Fatal("application error", "err", err)
	}
}

// newApp builds the command tree. Logs go to w.
func newApp(w io.Writer) *cli.Command {
	r := &runner{out: w}
	return &cli.Command{
		Name:  "tunebox",
		Usage: "Music catalog and playback tracking API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a configuration file (yaml, toml, json or env)",
				Sources: cli.EnvVars("TUNEBOX_CONFIG"),
			},
		},
		Before: r.load,
		Action: r.serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: r.serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: r.migrate,
			},
			{
				Name:  "create-user",
				Usage: "Create an account, optionally active and with admin rights",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("TUNEBOX_PASSWORD")},
					&cli.StringFlag{Name: "nickname"},
					&cli.BoolFlag{Name: "staff", Usage: "Grant admin rights"},
					&cli.BoolFlag{Name: "active", Usage: "Skip email verification"},
				},
				Action: r.createUser,
			},
		},
	}
}

// runner holds what every command shares: the loaded config and the logger.
type runner struct {
	out    io.Writer
	cfg    *config.Config
	logger *log.Logger
}

func (r *runner) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(viper.New(), cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.cfg = cfg
	r.logger = logging.New(r.out, cfg.LogLevel)
	return ctx, nil
}

func (r *runner) openDB() (*gorm.DB, error) {
	db, err := database.Open(r.cfg.DatabaseDriver, r.cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func (r *runner) tokens() (*auth.TokenService, error) {
	return auth.NewTokenService(r.cfg.JWTSecret, auth.Lifetimes{
		Access:       r.cfg.AccessTokenTTL,
		Refresh:      r.cfg.RefreshTokenTTL,
		Verification: r.cfg.VerifyTokenTTL,
	})
}

// notifier returns the configured verification notifier and a function releasing it.
func (r *runner) notifier() (notify.Notifier, func(), error) {
	if r.cfg.MailBackend != config.MailAMQP {
		return notify.NewConsoleNotifier(r.logger), func() {}, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:    r.cfg.RabbitMQURL,
		Queues: []string{r.cfg.MailQueue},
		Logger: r.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := client.Close(); err != nil {
			r.logger.Warn("failed to close rabbitmq client", "err", err)
		}
	}
	return notify.NewQueueNotifier(client, r.cfg.MailQueue), release, nil
}

func (r *runner) serve(ctx context.Context, _ *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	tokens, err := r.tokens()
	if err != nil {
		return err
	}
	issuer, err := storage.NewS3Issuer(ctx, r.cfg.S3)
	if err != nil {
		return err
	}
	if r.cfg.S3.Bucket == "" {
		r.logger.Warn("AWS_S3_BUCKET is empty; signed URLs will not resolve")
	}
	notifier, release, err := r.notifier()
	if err != nil {
		return err
	}
	defer release()

	app := server.New(server.Deps{
		Config:   r.cfg,
		DB:       db,
		Tokens:   tokens,
		Issuer:   issuer,
		Notifier: notifier,
		Logger:   r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", r.cfg.AppPort)
		errCh <- app.Listen(r.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		r.logger.Error("error during shutdown", "err", err)
	}
	r.logger.Info("server gracefully stopped")
	return nil
}

func (r *runner) migrate(_ context.Context, _ *cli.Command) error {
	if _, err := r.openDB(); err != nil {
		return err
	}
	r.logger.Info("database migrated", "driver", r.cfg.DatabaseDriver)
	return nil
}

func (r *runner) createUser(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	tokens, err := r.tokens()
	if err != nil {
		return err
	}
	notifier, release, err := r.notifier()
	if err != nil {
		return err
	}
	defer release()

	authService := server.NewAuthService(server.Deps{
		Config:   r.cfg,
		DB:       db,
		Tokens:   tokens,
		Notifier: notifier,
		Logger:   r.logger,
	})
	user, err := authService.Register(ctx, services.RegisterInput{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Nickname: cmd.String("nickname"),
	}, services.RegisterOptions{
		Activate: cmd.Bool("active"),
		Staff:    cmd.Bool("staff"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "id", user.ID, "username", user.Username, "active", user.IsActive, "staff", user.IsStaff)
	return nil
}
