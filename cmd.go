package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/memkv/memkv/pkg/config"
)

var (
	version = "0.1.0" // set during build with -ldflags

	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:     "memkvd",
	Short:   "memkvd - a memcache-compatible in-memory key/value server",
	Version: version,
	RunE:    runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server (same as running memkvd with no subcommand)",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		fmt.Println(cfg.String())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("memkvd v%s\n", version)
		fmt.Printf("built with %s\n", runtime.Version())
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	log.Logger = logger

	app, err := newApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("starting up: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Serve()
	}()

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		app.Stop()
		return nil
	case err := <-errCh:
		return err
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var w = os.Stderr
	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return logger.Level(lvl)
}

func init() {
	rootCmd.PersistentFlags().StringP("host", "H", "0.0.0.0", "Host to bind to")
	rootCmd.PersistentFlags().IntP("port", "p", 11211, "Port to listen on")
	rootCmd.PersistentFlags().Uint64("capacity", 1_000_000, "Maximum number of live cache entries")
	rootCmd.PersistentFlags().Float64("item-lifetime", -1, "Idle eviction timeout in seconds (negative disables it)")
	rootCmd.PersistentFlags().Uint64("key-maxlen", 250, "Maximum key length in bytes")
	rootCmd.PersistentFlags().Uint64("value-maxlen", 1_048_576, "Maximum value length in bytes")
	rootCmd.PersistentFlags().Int("max-connections", 10000, "Maximum concurrent connections")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("config-file", "", "Path to a config file to hot-reload item_lifetime/key_maxlen/value_maxlen from")
	rootCmd.PersistentFlags().Int("hot-reload-interval-ms", 2000, "Poll interval for the hot-reload watcher, in milliseconds")

	_ = v.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = v.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = v.BindPFlag("capacity", rootCmd.PersistentFlags().Lookup("capacity"))
	_ = v.BindPFlag("item_lifetime", rootCmd.PersistentFlags().Lookup("item-lifetime"))
	_ = v.BindPFlag("key_maxlen", rootCmd.PersistentFlags().Lookup("key-maxlen"))
	_ = v.BindPFlag("value_maxlen", rootCmd.PersistentFlags().Lookup("value-maxlen"))
	_ = v.BindPFlag("max_connections", rootCmd.PersistentFlags().Lookup("max-connections"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("config_file", rootCmd.PersistentFlags().Lookup("config-file"))
	_ = v.BindPFlag("hot_reload_interval_ms", rootCmd.PersistentFlags().Lookup("hot-reload-interval-ms"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the CLI entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
