package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vesperants/najir-agent/pkg/cli/config"
	httpctrl "github.com/vesperants/najir-agent/pkg/controller/http"
	"github.com/vesperants/najir-agent/pkg/service/lookup"
	"github.com/vesperants/najir-agent/pkg/usecase"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var allowedOrigins []string
	var workers int
	var lookupTimeout time.Duration
	var discoveryCfg config.Discovery
	var vertexCfg config.Vertex
	var geminiCfg config.Gemini
	var sessionCfg config.Session
	var routerCfg config.Router

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("NAJIR_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "allowed-origins",
			Usage:       "CORS origin allowlist (any origin when empty)",
			Sources:     cli.EnvVars("NAJIR_ALLOWED_ORIGINS"),
			Destination: &allowedOrigins,
		},
		&cli.IntFlag{
			Name:        "lookup-workers",
			Usage:       "Concurrent workers for batch case lookups",
			Value:       3,
			Sources:     cli.EnvVars("NAJIR_LOOKUP_WORKERS"),
			Destination: &workers,
		},
		&cli.DurationFlag{
			Name:        "lookup-timeout",
			Usage:       "Per-case lookup deadline",
			Value:       15 * time.Second,
			Sources:     cli.EnvVars("NAJIR_LOOKUP_TIMEOUT"),
			Destination: &lookupTimeout,
		},
	}
	flags = append(flags, discoveryCfg.Flags()...)
	flags = append(flags, vertexCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, routerCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			searchClient, err := discoveryCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure case search backend")
			}
			defer func() {
				if err := searchClient.Close(); err != nil {
					logging.Default().Error("failed to close search client", "error", err.Error())
				}
			}()

			sessionBackend, err := vertexCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure session backend")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llm == nil {
				logging.Default().Info("Gemini not configured, case answers degrade to titles")
			}

			repo, err := sessionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session cache")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close session cache", "error", err.Error())
				}
			}()

			keywords, err := routerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load routing keywords")
			}

			caseLookup := lookup.New(searchClient, llm)
			uc := usecase.New(repo, sessionBackend, searchClient, caseLookup,
				usecase.WithRouterConfig(keywords),
				usecase.WithFallbackLLM(llm),
				usecase.WithBatchOptions(
					lookup.WithWorkers(workers),
					lookup.WithTimeout(lookupTimeout),
				),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithAllowedOrigins(allowedOrigins)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
