// Package main is the entry point for the textcore formatter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/config/watcher"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/logging"

	_ "github.com/tliron/commonlog/simple"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	Offset     int
	Length     int
	Write      bool
	Watch      bool
	Partitions bool
	LogLevel   string
	LogFile    string
	Input      string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	level := cfg.LogLevel()
	if opts.LogLevel != "" {
		level = logging.ParseLogLevel(opts.LogLevel)
	}
	logFile := cfg.Logging.File
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}
	logger := logging.Configure(level, logFile)

	if err := process(opts, cfg, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !opts.Watch {
		return 0
	}

	if err := watch(opts, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// process formats the input once and writes the result.
func process(opts options, cfg *config.Config, logger *logging.Logger, stdout io.Writer) error {
	content, err := readInput(opts.Input)
	if err != nil {
		return err
	}

	e, err := engine.New(
		engine.WithConfig(cfg),
		engine.WithContent(content),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	if opts.Partitions {
		parts, err := e.Partitioning()
		if err != nil {
			return err
		}
		for _, p := range parts {
			fmt.Fprintf(stdout, "%6d %6d %s\n", p.Offset, p.Length, p.Type)
		}
		return nil
	}

	length := opts.Length
	if length < 0 {
		length = e.Len() - opts.Offset
	}
	if err := e.Format(opts.Offset, length); err != nil {
		var perr *engine.PartitionError
		if errors.As(err, &perr) {
			logger.Warn("partition left unformatted: %v", perr)
		}
		return err
	}

	if opts.Write && opts.Input != "" {
		if e.Text() == content {
			return nil
		}
		info, err := os.Stat(opts.Input)
		if err != nil {
			return err
		}
		return os.WriteFile(opts.Input, []byte(e.Text()), info.Mode().Perm())
	}
	_, err = io.WriteString(stdout, e.Text())
	return err
}

// watch reprocesses the input whenever it or the configuration changes,
// until interrupted.
func watch(opts options, cfg *config.Config, logger *logging.Logger) error {
	w, err := watcher.New(watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(opts.Input); err != nil {
		return err
	}
	if opts.ConfigPath != "" {
		if err := w.Watch(opts.ConfigPath); err != nil {
			return err
		}
	}

	changes := make(chan watcher.Event, 1)
	w.OnChange(func(ev watcher.Event) {
		select {
		case changes <- ev:
		default:
		}
	})
	w.Start()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	logger.Info("watching %v", w.WatchedFiles())
	for {
		select {
		case <-signals:
			return nil
		case ev := <-changes:
			if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
				logger.Warn("%s: %s, waiting for it to return", ev.Path, ev.Op)
				continue
			}
			if opts.ConfigPath != "" {
				next, err := config.Load(opts.ConfigPath)
				if err != nil {
					logger.Error("reload configuration: %v", err)
					continue
				}
				cfg = next
			}
			// Writing the input back triggers one more event. The second
			// pass finds nothing to change and does not write.
			if err := process(opts, cfg, logger, os.Stdout); err != nil {
				logger.Error("%v", err)
			}
		}
	}
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&opts.Offset, "offset", 0, "Start of the range to format")
	flag.IntVar(&opts.Length, "length", -1, "Length of the range to format (-1: to the end)")
	flag.BoolVar(&opts.Write, "write", false, "Write the result back to the input file")
	flag.BoolVar(&opts.Write, "w", false, "Write the result back to the input file (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reformat whenever the input or configuration changes")
	flag.BoolVar(&opts.Partitions, "partitions", false, "Print the partitioning instead of formatting")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Log to this file instead of stderr")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcore - partition-aware text formatter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcore -c textcore.toml main.c       Print main.c formatted\n")
		fmt.Fprintf(os.Stderr, "  textcore -c textcore.toml -w main.c    Format main.c in place\n")
		fmt.Fprintf(os.Stderr, "  textcore -partitions < main.c          Show partitions\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("textcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one input file\n")
		os.Exit(1)
	}
	opts.Input = flag.Arg(0)

	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return opts
}

// validate checks flag combinations that parsing alone cannot.
func (o options) validate() error {
	switch o.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", o.LogLevel)
	}
	stdin := o.Input == "" || o.Input == "-"
	if o.Write && stdin {
		return errors.New("-write needs an input file")
	}
	if o.Watch && stdin {
		return errors.New("-watch needs an input file")
	}
	if o.Offset < 0 {
		return fmt.Errorf("invalid offset %d", o.Offset)
	}
	return nil
}
