package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aymanbagabas/go-udiff"
	lg "github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/bubbletea"
	"github.com/fwojciec/diffpaint/chroma"
	"github.com/fwojciec/diffpaint/config"
	"github.com/fwojciec/diffpaint/lipgloss"
	"github.com/fwojciec/diffpaint/pipeline"
	"github.com/fwojciec/diffpaint/process"
	"github.com/fwojciec/diffpaint/stylespec"
	"github.com/fwojciec/diffpaint/worddiff"
	"github.com/google/gops/agent"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Exit codes follow diff(1).
const (
	exitOK          = 0
	exitDifferences = 1
	exitError       = 2
)

// callerWait bounds how long a debug run waits for the calling process lookup.
const callerWait = 100 * time.Millisecond

// App encapsulates the application logic for testing.
type App struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Renderer diffpaint.Renderer
	// Pager is optional. Without one, output goes straight to Stdout.
	Pager diffpaint.Pager
}

// Run renders Stdin, through the pager if there is one.
func (a *App) Run(ctx context.Context) error {
	if a.Pager == nil {
		return a.Renderer.Run(ctx, a.Stdin, a.Stdout)
	}
	return a.Pager.Page(ctx, func(w io.Writer) error {
		return a.Renderer.Run(ctx, a.Stdin, w)
	})
}

// options are the settings that are not part of the rendering configuration.
type options struct {
	configPath string
	debug      bool
	gops       bool
	list       string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A closed stdout must surface as EPIPE from write, not kill the process.
	signal.Ignore(syscall.SIGPIPE)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	flags := flag.NewFlagSet("diffpaint", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: git diff | diffpaint [flags]")
		fmt.Fprintln(flags.Output(), "       diffpaint [flags] FILE_A FILE_B")
		flags.PrintDefaults()
	}
	var opts options
	flags.StringVar(&opts.configPath, "config", config.DefaultPath(), "configuration file")
	flags.BoolVar(&opts.debug, "debug", false, "log diagnostics to stderr")
	flags.BoolVar(&opts.gops, "gops", false, "start a gops agent")
	flags.StringVar(&opts.list, "list", "", "list themes, syntax-themes, features or languages and exit")
	parsed := config.Default()
	parsed.Bind(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if opts.debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if opts.list != "" {
		return list(os.Stdout, opts.list, log)
	}

	caller := process.Start()
	defer func() {
		info, ok := caller.Get()
		if !ok && opts.debug {
			ctx, cancel := context.WithTimeout(context.Background(), callerWait)
			defer cancel()
			var err error
			info, err = caller.Wait(ctx)
			ok = err == nil
		}
		if ok {
			log.WithFields(logrus.Fields{"caller": info.String(), "go": info.GoVersion}).Debug("calling process")
		}
	}()

	if opts.gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			log.WithError(err).Warn("could not start gops agent")
		} else {
			defer agent.Close()
		}
	}

	fileCfg, err := config.Load(opts.configPath, log)
	if err != nil {
		log.WithError(err).Error("loading configuration")
		return exitError
	}
	cfg, err := config.Overlay(fileCfg, flags)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return exitError
	}

	var stdin io.Reader = os.Stdin
	differ := false
	switch flags.NArg() {
	case 0:
		if isTerminal(os.Stdin) {
			flags.Usage()
			return exitError
		}
	case 2:
		text, err := diffFiles(flags.Arg(0), flags.Arg(1))
		if err != nil {
			log.WithError(err).Error("comparing files")
			return exitError
		}
		differ = text != ""
		stdin = strings.NewReader(text)
	default:
		flags.Usage()
		return exitError
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(cfg, stdin, os.Stdout, log)
	if err != nil {
		log.WithError(err).Error("setting up")
		return exitError
	}
	if err := app.Run(ctx); err != nil {
		log.WithError(err).Error("rendering diff")
		return exitError
	}
	if differ {
		return exitDifferences
	}
	return exitOK
}

// newApp builds the rendering stack for out.
func newApp(cfg config.Config, in io.Reader, out *os.File, log logrus.FieldLogger) (*App, error) {
	tty := isTerminal(out)
	termWidth, termHeight := 0, 0
	if tty {
		if w, h, err := term.GetSize(int(out.Fd())); err == nil {
			termWidth, termHeight = w, h
		}
	}

	profile := colorProfile(cfg.ColorProfile, out)
	renderer := lg.NewRenderer(out)
	renderer.SetColorProfile(profile)

	theme, err := lipgloss.ThemeByName(cfg.Theme)
	if err != nil {
		return nil, err
	}
	styles := stylespec.Resolve(log, cfg.Layers(theme)...)

	styleFunc := chroma.StyleFromPalette(theme.Palette())
	if cfg.SyntaxTheme != "" {
		if styleFunc, err = chroma.StyleFromChroma(cfg.SyntaxTheme); err != nil {
			return nil, err
		}
	}
	highlighter, err := chroma.NewHighlighter(styleFunc)
	if err != nil {
		return nil, err
	}

	width := cfg.Width
	if width == 0 {
		width = termWidth
	}
	width = max(width, 0)

	mode, err := worddiff.ParseMode(cfg.WordMode)
	if err != nil {
		return nil, err
	}
	deps := pipeline.Deps{
		Highlighter: highlighter,
		Detector:    chroma.NewDetector(),
		Log:         log,
	}
	if cfg.Decorations {
		deps.Decorator = &lipgloss.Decorator{Renderer: renderer, Styles: styles, Width: width}
	}
	p, err := pipeline.New(pipeline.Config{
		Threshold:     cfg.MaxLineDistance,
		MaxBlockLines: cfg.MaxBlockLines,
		MinEqual:      cfg.MinEqualTokens,
		Mode:          mode,
		WordRegexp:    cfg.WordRegexp,
		Width:         width,
		TabWidth:      cfg.TabWidth,
		LineNumbers:   cfg.LineNumbers,
		Markers:       cfg.Markers,
		Profile:       profile,
		Styles:        styles,
	}, deps)
	if err != nil {
		return nil, err
	}

	app := &App{Stdin: in, Stdout: out, Renderer: p}
	if tty && cfg.Paging != config.PagingNever {
		height := termHeight
		if cfg.Paging == config.PagingAlways {
			height = 0
		}
		pager := bubbletea.NewPager(out, height)
		pager.Renderer = renderer
		app.Pager = pager
	}
	return app, nil
}

// colorProfile maps a configured profile name to a termenv profile. "auto"
// asks the terminal.
func colorProfile(name string, out *os.File) termenv.Profile {
	switch name {
	case "ascii":
		return termenv.Ascii
	case "ansi":
		return termenv.ANSI
	case "ansi256":
		return termenv.ANSI256
	case "truecolor":
		return termenv.TrueColor
	}
	return termenv.NewOutput(out).EnvColorProfile()
}

// diffFiles returns the unified diff of two files, empty if they are equal.
func diffFiles(a, b string) (string, error) {
	before, err := os.ReadFile(a)
	if err != nil {
		return "", errors.Wrap(err, "read")
	}
	after, err := os.ReadFile(b)
	if err != nil {
		return "", errors.Wrap(err, "read")
	}
	return udiff.Unified(a, b, string(before), string(after)), nil
}

func list(w io.Writer, what string, log logrus.FieldLogger) int {
	var names []string
	switch what {
	case "themes":
		names = lipgloss.ThemeNames()
	case "syntax-themes":
		names = chroma.SyntaxThemes()
	case "features":
		names = stylespec.Features()
	case "languages":
		names = chroma.NewDetector().Languages()
	default:
		log.Errorf("cannot list %q: expected themes, syntax-themes, features or languages", what)
		return exitError
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return exitOK
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
