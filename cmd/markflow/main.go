// Package main is the entry point for the markflow editor.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/pretty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	xterm "golang.org/x/term"

	"github.com/dshills/markflow/internal/config/loader"
	"github.com/dshills/markflow/internal/config/watcher"
	"github.com/dshills/markflow/internal/input/key"
	"github.com/dshills/markflow/internal/pipeline"
	"github.com/dshills/markflow/internal/style"
	"github.com/dshills/markflow/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var log = commonlog.GetLogger("markflow")

type options struct {
	configPath string
	watch      bool
	logLevel   string
	logFile    string
	render     string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	interactive := opts.render == ""
	configureLogging(opts, interactive)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	p := pipeline.New()
	if err := p.Initialize(ctx, provider); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !interactive {
		if err := renderFile(p, opts.render, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if !xterm.IsTerminal(int(os.Stdin.Fd())) || !xterm.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: not a terminal; use -render for batch mode")
		return 1
	}

	if opts.watch && provider != nil {
		w, err := watchConfig(ctx, opts.configPath, p, provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", opts.configPath, err)
			return 1
		}
		defer func() { _ = w.Close() }()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	if err := term.NewApp(screen, p).Run(ctx); err != nil && !errors.Is(err, term.ErrQuit) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Debugf("final document: %s", p.CurrentDocument().Dump())
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Style registry file (.toml, .yaml, .json or .lua)")
	flag.StringVar(&opts.configPath, "c", "", "Style registry file (shorthand)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the style registry when the file changes")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&opts.render, "render", "", "Type the file through the editor and print the resulting blocks as JSON")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "markflow - markdown shortcuts to rich text\n\n")
		fmt.Fprintf(os.Stderr, "Usage: markflow [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  markflow                          Edit with the built-in styles\n")
		fmt.Fprintf(os.Stderr, "  markflow -c styles.toml -watch    Edit and reload styles on save\n")
		fmt.Fprintf(os.Stderr, "  markflow -render notes.md         Print the rich text blocks of notes.md\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("markflow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}
	return opts
}

// configureLogging maps the log level to commonlog verbosity. The
// interactive editor owns the terminal, so it only logs to a file.
func configureLogging(opts options, interactive bool) {
	verbosity := map[string]int{"debug": 2, "info": 1, "warn": -1, "error": -2}[opts.logLevel]
	if opts.logFile != "" {
		commonlog.Configure(verbosity, &opts.logFile)
		return
	}
	if interactive {
		verbosity = -4
	}
	commonlog.Configure(verbosity, nil)
}

// newProvider returns nil, selecting the built-in registry, when path
// is empty.
func newProvider(path string) (style.Provider, error) {
	if path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(path)
	if err != nil {
		return nil, err
	}
	return loader.NewFileProvider(l, loader.WithEnv(loader.NewEnvLoader(loader.DefaultEnvPrefix))), nil
}

func watchConfig(ctx context.Context, path string, p *pipeline.Pipeline, provider style.Provider) (*watcher.Watcher, error) {
	w, err := watcher.New()
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	w.OnChange(watcher.Reload(ctx, func(ctx context.Context) error {
		return p.Reload(ctx, provider)
	}))
	w.Start()
	return w, nil
}

// renderFile types path through the pipeline one key at a time. Every
// line is committed with Enter, so the result ends with the empty block
// holding the cursor.
func renderFile(p *pipeline.Pipeline, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := feed(p, bufio.NewReader(f)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	doc := p.CurrentDocument()
	log.Debugf("rendered %s: %s", path, doc.Dump())
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = out.Write(pretty.Pretty(data))
	return err
}

func feed(p *pipeline.Pipeline, r io.RuneReader) error {
	pending := false
	for {
		ch, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		var ev key.Event
		switch ch {
		case '\r':
			continue
		case '\n':
			ev = key.NewSpecialEvent(key.KeyEnter, key.ModNone)
		case '\t':
			ev = key.NewSpecialEvent(key.KeyTab, key.ModNone)
		default:
			ev = key.NewRuneEvent(ch, key.ModNone)
		}
		if _, err := p.OnKeyEvent(ev); err != nil {
			return err
		}
		pending = ch != '\n'
	}
	if pending {
		if _, err := p.OnKeyEvent(key.NewSpecialEvent(key.KeyEnter, key.ModNone)); err != nil {
			return err
		}
	}
	return nil
}
