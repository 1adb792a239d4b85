package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/ShareBridge/internal/imaging"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ShareBridge/internal/pageref"
	"github.com/GriffinCanCode/ShareBridge/internal/pipeline"
	"github.com/GriffinCanCode/ShareBridge/internal/upload"
)

// app is the state shared by all subcommands once the root has loaded it.
type app struct {
	envFile   string
	storePath string
	verbose   bool

	cfg    *config.Config
	logger *logging.Logger
	// openURL replaces the OS URL handler; nil uses the default.
	openURL func(string) error
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{})
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sharebridge",
		Short: "Send shared links and photos to Scrapbox through LogSense",
		Long: `sharebridge classifies shared content, uploads photos to Gyazo, builds a
Scrapbox page URL and hands it to the LogSense app through its URL scheme.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "env file to load before reading the environment")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "settings store path (default: per-user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newShareCmd(a),
		newServeCmd(a),
		newSettingsCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadWithDotenv(a.envFile)
	if err != nil {
		return err
	}
	if a.storePath != "" {
		cfg.Share.StorePath = a.storePath
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.NewFromSettings(cfg.Logging.Level, cfg.Logging.Development)
	return nil
}

// newPipeline wires the production collaborators.
func (a *app) newPipeline(uploader upload.Uploader) (*pipeline.Pipeline, error) {
	builder, err := pageref.NewBuilder(a.cfg.Share.PageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("page base url: %w", err)
	}
	return pipeline.New(pipeline.Options{
		Processor: imaging.NewProcessor(imaging.Options{
			JPEGQuality: a.cfg.Image.JPEGQuality,
			MaxWidth:    a.cfg.Image.MaxWidth,
			MaxPixels:   a.cfg.Image.MaxPixels,
		}),
		Uploader:       uploader,
		Builder:        builder,
		Scheme:         a.cfg.Share.AppScheme,
		DefaultProject: a.cfg.Share.DefaultProject,
		Logger:         a.logger.Named("pipeline"),
	}), nil
}

func (a *app) newUploader() *upload.Client {
	return upload.NewClient(upload.Options{
		Endpoint:          a.cfg.Upload.Endpoint,
		Timeout:           a.cfg.Upload.Timeout,
		UserAgent:         a.cfg.Upload.UserAgent,
		RequestsPerSecond: a.cfg.Upload.RequestsPerSecond,
	})
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
