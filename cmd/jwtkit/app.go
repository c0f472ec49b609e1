package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cybergodev/jwtkit"
	"github.com/cybergodev/jwtkit/internal/config"
	"github.com/cybergodev/jwtkit/internal/history"
	"github.com/cybergodev/jwtkit/internal/logging"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

// errInvalidToken makes run exit with exitInvalid without printing an error.
var errInvalidToken = errors.New("token is invalid")

// globalFlags are accepted before the subcommand name.
type globalFlags struct {
	configPath  string
	envFile     string
	logLevel    string
	logFormat   string
	history     string
	metricsFile string
}

// app holds everything a subcommand needs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	engine  *jwtkit.Engine
	metrics *jwtkit.Metrics
	history *history.Manager

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"decode", "decode a token without verifying it", runDecode},
	{"sign", "build and sign a token", runSign},
	{"verify", "verify a token signature", runVerify},
	{"inspect", "show the registered claims of a token", runInspect},
	{"history", "list or manage recently used tokens", runHistory},
	{"qr", "render a token as a QR code", runQR},
	{"version", "print version information", runVersion},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jwtkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs, stderr) }

	var flags globalFlags
	fs.StringVar(&flags.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "path to a YAML configuration file")
	fs.StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	fs.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")
	fs.StringVar(&flags.history, "history", "", "override token history (on, off)")
	fs.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}

	cmd, ok := findCommand(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "jwtkit: unknown command %q\n", rest[0])
		fs.Usage()
		return exitUsage
	}

	a, err := newApp(flags, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "jwtkit: %v\n", err)
		return exitUsage
	}

	err = cmd.run(ctx, a, rest[1:])
	if closeErr := a.close(); closeErr != nil {
		a.logger.Warn("shutdown failed", zap.Error(closeErr))
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalidToken):
		return exitInvalid
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	default:
		fmt.Fprintf(stderr, "jwtkit %s: %v\n", cmd.name, err)
		return exitUsage
	}
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: jwtkit [flags] <command> [command flags] [token]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

func newApp(flags globalFlags, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath, flags.envFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(&cfg, flags); err != nil {
		return nil, err
	}

	logger, err := logging.NewWithConfig(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := jwtkit.NewMetrics("")
	engine, err := jwtkit.NewEngine(jwtkit.Config{
		ValidateTimeClaims: cfg.Engine.ValidateTimeClaims,
		Leeway:             cfg.Engine.Leeway,
		RejectWeakSecrets:  cfg.Engine.RejectWeakSecrets,
		Logger:             logger,
		Metrics:            metrics,
	})
	if err != nil {
		return nil, err
	}

	manager, err := history.NewManager(history.NewStore(cfg.History), cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open token history: %w", err)
	}
	// Only an explicit -history off wipes saved tokens. A run that merely
	// has history disabled leaves the file for a later -history on.
	if flags.history == "off" || flags.history == "false" {
		if err := manager.SetEnabled(false); err != nil {
			return nil, fmt.Errorf("failed to clear token history: %w", err)
		}
	}

	logger.Debug("configuration loaded",
		zap.String("config", flags.configPath),
		zap.Bool("history", cfg.History.Enabled),
		zap.Bool("validate_time_claims", cfg.Engine.ValidateTimeClaims))

	return &app{
		cfg:     cfg,
		logger:  logger,
		engine:  engine,
		metrics: metrics,
		history: manager,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// applyFlags lays command line flags over the loaded configuration.
func applyFlags(cfg *config.Config, flags globalFlags) error {
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.metricsFile != "" {
		cfg.MetricsFile = flags.metricsFile
	}
	switch flags.history {
	case "":
	case "on", "true":
		cfg.History.Enabled = true
	case "off", "false":
		cfg.History.Enabled = false
	default:
		return fmt.Errorf("%w: -history must be on or off, got %q", config.ErrInvalid, flags.history)
	}
	return cfg.Validate()
}

// remember records token in the history when it is enabled.
func (a *app) remember(token string, alg jwtkit.Algorithm) {
	item, added, err := a.history.Add(token, string(alg))
	if err != nil {
		a.logger.Warn("failed to record token history", zap.Error(err))
		return
	}
	if added {
		a.logger.Debug("token recorded in history", zap.String("id", item.ID))
	}
}

func (a *app) close() error {
	var errs []error
	if a.cfg.MetricsFile != "" {
		if err := writeMetrics(a.cfg.MetricsFile, a.metrics.Registry()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.history.Close(); err != nil {
		errs = append(errs, err)
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func writeMetrics(path string, registry *prometheus.Registry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
