package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
	"github.com/tartampluch/go-vakitmatik/internal/server"
	"github.com/tartampluch/go-vakitmatik/internal/service"
	"golang.org/x/sync/errgroup"
)

// options holds the parsed command line.
type options struct {
	input    string
	name     string
	output   string
	ics      string
	serve    bool
	port     string
	interval int
	timezone string
	watch    bool
}

// main returns through runMain so deferred closes run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and signals, and maps the outcome to an exit code.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.input, config.FlagInput, "", config.FlagDescInput)
	flag.StringVar(&opts.name, config.FlagName, "", config.FlagDescName)
	flag.StringVar(&opts.output, config.FlagOutput, "", config.FlagDescOutput)
	flag.StringVar(&opts.ics, config.FlagICS, "", config.FlagDescICS)
	flag.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	flag.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	flag.IntVar(&opts.interval, config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInterval)
	flag.StringVar(&opts.timezone, config.FlagTimezone, config.DefaultTimezone, config.FlagDescTimezone)
	flag.BoolVar(&opts.watch, config.FlagWatch, false, config.FlagDescWatch)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(opts)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies and either converts once or serves until cancelled.
func run(ctx context.Context, opts options) error {
	if opts.input == "" {
		return errors.New(config.ErrInputPathEmpty)
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrTimezone, err)
	}

	gen := &engine.Generator{
		Clock:  engine.RealClock{},
		Source: engine.NewWorkbookSource(opts.input),
	}
	cfg := engine.GenerateConfig{
		Location: opts.name,
		Timezone: loc,
		Calendar: opts.serve || opts.ics != "",
	}

	if opts.serve {
		return serve(ctx, gen, cfg, opts)
	}
	return convert(ctx, gen, cfg, opts)
}

// convert performs a single generation and writes the files.
func convert(ctx context.Context, gen *engine.Generator, cfg engine.GenerateConfig, opts options) error {
	res, err := gen.Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = res.Location + config.FileExtText
	}
	if err := writeFile(out, res.Document); err != nil {
		return err
	}

	if opts.ics != "" {
		if err := writeFile(opts.ics, res.Calendar); err != nil {
			return err
		}
	}
	return nil
}

// serve runs the HTTP server, the refresh worker and the optional file
// watcher side by side.
func serve(ctx context.Context, gen *engine.Generator, cfg engine.GenerateConfig, opts options) error {
	srv := server.NewScheduleServer(opts.port)
	srv.Timezone = cfg.Timezone
	srv.Clock = gen.Clock
	svc := service.New(gen, srv, cfg, time.Duration(opts.interval)*time.Minute)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		svc.Run(gctx)
		return nil
	})
	if opts.watch {
		g.Go(func() error {
			return svc.Watch(gctx, opts.input)
		})
	}
	return g.Wait()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, config.FilePermPublic); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	slog.Info(config.MsgFileWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPath, path,
		config.LogKeySizeBytes, len(data),
	)
	return nil
}

// printVersion writes the build identification line to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
}

// logStartupInfo records the build, the host and the chosen mode.
func logStartupInfo(opts options) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPath, opts.input,
		config.LogKeyLocation, engine.LocationName(opts.name),
		slog.Bool(config.FlagServe, opts.serve),
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler writing to stdout and, when the
// cache directory is usable, to a log file truncated on every start. The
// returned closer is nil when only stdout is used.
func setupLogging(debugMode bool) io.Closer {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stdout)
	logFile, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	} else {
		out = io.MultiWriter(os.Stdout, logFile)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	})))

	if logFile == nil {
		return nil
	}
	return logFile
}

// openLogFile creates <cache>/<AppID>/<LogFileName>.
func openLogFile() (*os.File, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return os.OpenFile(filepath.Join(appDir, config.LogFileName), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
}
