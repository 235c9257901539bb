package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"matchhub/internal/adapters/email"
	web "matchhub/internal/adapters/http"
	"matchhub/internal/adapters/storage"
	"matchhub/internal/adapters/storage/content"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/config"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web app",
	Long: `Serve syncs the users from the auth file into the account database,
starts the content watcher and serves the web UI until interrupted.

Examples:
  matchhub serve
  MATCHHUB_ADDR=:9000 matchhub serve --config /etc/matchhub.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := syncAccounts(ctx, a, cfg.AuthFile); err != nil {
		return err
	}

	var sender email.Sender
	if cfg.Email.ResendKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		slog.Info("config_event", "event", "email_enabled", "from", cfg.Email.From)
	} else if cfg.Production() {
		slog.Warn("config_event", "event", "email_disabled", "detail", "MATCHHUB_RESEND_KEY is not set")
	} else {
		sender = email.NewNoopSender()
		slog.Info("config_event", "event", "email_noop", "detail", "notifications are logged, not sent")
	}

	handler := web.NewMux(a.stores, web.Options{
		FocusTeam:          cfg.FocusTeam,
		Location:           cfg.Location(),
		Fetcher:            newFetcher(cfg),
		EmailSender:        sender,
		BaseURL:            cfg.BaseURL,
		CSRFKey:            cfg.CSRFKeyBytes(),
		Production:         cfg.Production(),
		TrustedOrigins:     cfg.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimit,
		SessionTTL:         cfg.SessionTTL,
		SlowRequestMs:      cfg.SlowMs,
		StaticDir:          cfg.StaticDir,
	}, a.collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.loader != nil {
		watcher, err := content.NewWatcher(a.loader)
		if err != nil {
			return fmt.Errorf("creating content watcher: %w", err)
		}
		if err := watcher.Start(gctx); err != nil {
			return fmt.Errorf("starting content watcher: %w", err)
		}
		defer watcher.Stop()
	}

	g.Go(func() error {
		slog.Info("server_event", "event", "listening", "addr", cfg.Addr, "env", cfg.Env,
			"version", Version, "schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server_event", "event", "shutting_down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// syncAccounts upserts the auth file users. A missing file keeps the
// accounts already in the database.
func syncAccounts(ctx context.Context, a *app, path string) error {
	seeds, err := config.LoadAuthFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		n, countErr := a.stores.AccountStore.Count(ctx)
		if countErr != nil {
			return countErr
		}
		slog.Warn("account_event", "event", "auth_file_missing", "path", path, "accounts", n)
		return nil
	}
	if err != nil {
		return err
	}

	result, err := orchestrators.ExecuteSyncAccounts(ctx, orchestrators.SyncAccountsInput{Users: seeds},
		orchestrators.SyncAccountsDeps{AccountStore: a.stores.AccountStore, Now: time.Now})
	if err != nil {
		return fmt.Errorf("syncing accounts: %w", err)
	}
	slog.Info("account_event", "event", "accounts_synced",
		"created", strings.Join(result.Created, ","), "updated", strings.Join(result.Updated, ","))
	return nil
}
