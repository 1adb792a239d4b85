package main

import (
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/server"
	"github.com/GriffinCanCode/ShareBridge/internal/settings"
)

func newServeCmd(a *app) *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP share-target endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				a.cfg.Server.Host = host
			}
			if port != "" {
				a.cfg.Server.Port = port
			}
			return runServe(cmd, a)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	reg := monitoring.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	log := a.logger.Named("server")
	guarded := resilience.NewUploader(a.newUploader(), resilience.Settings{
		FailureThreshold: a.cfg.Upload.BreakerFailures,
		Cooldown:         a.cfg.Upload.BreakerCooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			metrics.SetBreakerState(name, int(to))
		},
	})
	uploader := monitoring.UploadObserver{Uploader: guarded, Metrics: metrics}
	p, err := a.newPipeline(uploader)
	if err != nil {
		return err
	}
	p.WithMetrics(metrics)

	storePath := a.cfg.Share.ResolveStorePath()
	deps := server.Deps{
		Runner: p,
		Store: func() (settings.Getter, error) {
			store, err := settings.Open(storePath)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
		Logger:   log,
		Metrics:  metrics,
		Registry: reg,
	}
	if a.cfg.Server.LocalOpen {
		deps.LocalOpen = browser.OpenURL
	}

	srv, err := server.NewServer(a.cfg, deps)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return srv.Run(ctx)
}
