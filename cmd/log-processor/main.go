package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/constants"
	"cwlprocessor/internal/logger"
	"cwlprocessor/pkg/logging"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "log-processor",
		Short:        "Firehose transformation for CloudWatch Logs subscriptions",
		Long:         "Decodes CloudWatch Logs subscription records delivered by Kinesis Data Firehose, keeps DATA_MESSAGE documents and re-encodes them as plain JSON.",
		RunE:         lambdaCmd().RunE,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (optional, environment is always read)")

	rootCmd.AddCommand(lambdaCmd(), serveCmd(), replayCmd(), encodeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, logger.Logger, error) {
	earlyLog := logging.NewEarlyLog()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return nil, nil, err
	}

	if sugared, ok := log.(*logger.SugaredLogger); ok {
		sugared.SetServiceName(constants.ServiceName)
	}

	return cfg, log, nil
}

func initApp(ctx context.Context) (*App, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}

	app := NewApp(cfg, log)
	if err := app.Initialize(ctx); err != nil {
		log.ErrorwCtx(ctx, "Failed to initialize application", "error", err)
		log.Sync()
		return nil, err
	}
	return app, nil
}

func lambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()

			app.Logger.InfowCtx(ctx, "Starting Lambda handler")
			app.StartLambda()
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the transformation over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()

			if err := app.InitHTTPServer(ctx); err != nil {
				return err
			}

			app.Logger.InfowCtx(ctx, "Service running")
			if err := app.Run(ctx); err != nil && err != context.Canceled {
				app.Logger.ErrorwCtx(ctx, "Service stopped with error", "error", err)
				return err
			}

			if err := app.Shutdown(context.Background()); err != nil {
				return err
			}
			app.Logger.InfowCtx(ctx, "Service shutdown complete")
			return nil
		},
	}
}

func replayCmd() *cobra.Command {
	var eventFile string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a Firehose event from a file (or - for stdin) and print the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()

			in, closeIn, err := openInput(eventFile)
			if err != nil {
				return err
			}
			defer closeIn()

			if err := app.Replay(ctx, in, cmd.OutOrStdout()); err != nil {
				return err
			}
			return app.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&eventFile, "event", "-", "Path to a Firehose event JSON file, - for stdin")
	return cmd
}

func encodeCmd() *cobra.Command {
	var recordID string

	cmd := &cobra.Command{
		Use:   "encode [document.json ...]",
		Short: "Wrap CloudWatch Logs JSON documents into a Firehose event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			documents := make([][]byte, 0, len(args))
			for _, path := range args {
				in, closeIn, err := openInput(path)
				if err != nil {
					return err
				}
				doc, err := io.ReadAll(in)
				closeIn()
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				documents = append(documents, doc)
			}

			return EncodeEvent(documents, recordID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&recordID, "record-id", "", "Record id prefix (random ids when empty)")
	return cmd
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
