package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/app"
	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/cache"
	"github.com/ludo-technologies/dddscan/internal/config"
	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/service"
)

// CheckExitError is a custom error type for command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

// errorExit wraps an analysis or configuration failure
func errorExit(format string, args ...interface{}) *CheckExitError {
	return &CheckExitError{Code: constants.ExitError, Message: fmt.Sprintf(format, args...)}
}

// commonOptions are the flags shared by the analysis commands
type commonOptions struct {
	configPath  string
	format      string
	json        bool
	verbose     bool
	noCache     bool
	metricsFile string
	output      string
	noProgress  bool
}

func (o *commonOptions) addFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&o.format, "format", "f", defaultFormat,
		"Output format")
	cmd.Flags().BoolVar(&o.json, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false,
		"Log every analyzed file to stderr")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false,
		"Parse every file even when the cache has it")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "",
		"Write prometheus metrics of the run to this file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "",
		"Write output to a file instead of stdout")
}

// outputFormat resolves --json, --format and the configured default. The
// configured format only replaces a text default.
func (o *commonOptions) outputFormat(cmd *cobra.Command, cfg *config.Config) (domain.OutputFormat, error) {
	if o.json {
		return domain.OutputFormatJSON, nil
	}
	format := o.format
	if !cmd.Flags().Changed("format") && format == string(domain.OutputFormatText) && cfg.Output.Format != "" {
		format = cfg.Output.Format
	}
	return domain.ParseOutputFormat(format)
}

// runEnv holds everything one analysis command needs
type runEnv struct {
	cfg      *config.Config
	req      domain.ArchitectureRequest
	service  *service.ArchitectureServiceImpl
	useCase  *app.ArchitectureUseCase
	progress domain.ProgressManager
	cache    *cache.ItemCache
	logger   *slog.Logger
	format   domain.OutputFormat
	out      io.Writer
	closers  []func() error
	metrics  string
}

// newRunEnv loads configuration for args and wires the service, cache,
// formatter and use case.
func newRunEnv(cmd *cobra.Command, opts *commonOptions, args []string, kind service.RequestKind, formatter *service.OutputFormatterImpl) (*runEnv, error) {
	loader := service.NewConfigurationLoader()
	cfg, err := loader.LoadConfig(opts.configPath, args[0])
	if err != nil {
		return nil, errorExit("failed to load configuration: %v", err)
	}

	req, err := loader.BuildRequest(cfg, args, kind)
	if err != nil {
		return nil, errorExit("%v", err)
	}

	format, err := opts.outputFormat(cmd, cfg)
	if err != nil {
		return nil, errorExit("%v", err)
	}

	env := &runEnv{
		cfg:     cfg,
		req:     req,
		format:  format,
		out:     cmd.OutOrStdout(),
		logger:  newLogger(cmd.ErrOrStderr(), opts.verbose),
		metrics: opts.metricsFile,
	}
	if env.metrics == "" {
		env.metrics = cfg.Telemetry.MetricsFile
	}

	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return nil, errorExit("failed to create output file: %v", err)
		}
		env.out = f
		env.closers = append(env.closers, f.Close)
	}

	// Progress bars only when a human reads the text output.
	env.progress = service.NewProgressManager(format == domain.OutputFormatText && opts.output == "" && !opts.noProgress)
	env.closers = append(env.closers, func() error { env.progress.Close(); return nil })

	env.service = service.NewArchitectureService(env.progress, &cfg.Performance).WithLogger(env.logger)

	if cfg.Cache.Enabled && !opts.noCache {
		c, err := cache.Open(cfg.Cache.Directory, env.logger)
		if err != nil {
			// A locked or unreadable cache only costs speed.
			env.logger.Warn("cache disabled", slog.String("directory", cfg.Cache.Directory), slog.String("error", err.Error()))
		} else {
			env.cache = c
			env.service.WithCache(c)
			env.closers = append(env.closers, c.Close)
		}
	}

	env.useCase, err = app.NewArchitectureUseCaseBuilder().
		WithService(env.service).
		WithFormatter(formatter.WithDetails(cfg.Output.ShowDetails)).
		Build()
	if err != nil {
		env.Close()
		return nil, errorExit("%v", err)
	}

	return env, nil
}

// writeMetrics exports the run counters when a metrics file is configured
func (e *runEnv) writeMetrics() {
	if e.metrics == "" {
		return
	}
	if err := e.service.Metrics().WriteTextfile(e.metrics); err != nil {
		e.logger.Warn("failed to write metrics", slog.String("file", e.metrics), slog.String("error", err.Error()))
	}
}

// Close releases the output file, progress bars and cache in reverse order
func (e *runEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	e.closers = nil
}

// newLogger returns a text logger on w; verbose lowers the level to debug
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
