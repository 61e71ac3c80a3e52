package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdriver"
	"pkt.systems/mdriver/internal/config"
	"pkt.systems/mdriver/internal/imaging"
	"pkt.systems/version"
)

const (
	defaultWidth     = 80
	defaultChunkSize = 3
	defaultDelay     = 20 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/mdriver")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		simulate     bool
		simChunkSize int
		simDelay     time.Duration
		listThemes   bool
		listStyles   bool
		outPath      string
		boring       bool
		configPath   string
		writeConfig  string
		debug        bool
		showVersion  bool
		strict       bool
		keepFront    bool
	)

	def := config.Default()
	flags := pflag.NewFlagSet("mdriver", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&simulate, "simulate", false, "Stream simulator (use default delay and chunk size)")
	flags.IntVar(&simChunkSize, "simulate-chunk", defaultChunkSize, "Runes per simulated stream chunk")
	flags.DurationVar(&simDelay, "simulate-delay", defaultDelay, "Delay per simulated stream chunk")
	flags.StringP("theme", "t", def.Theme, "Syntax highlighting theme for code blocks")
	flags.StringP("style", "s", def.Style, "Markdown style name")
	flags.IntP("width", "w", def.Width, "Output width (0 uses terminal width, capped at 80)")
	flags.StringP("osc8", "8", def.OSC8, "OSC8 hyperlinks: auto|on|off")
	flags.String("images", def.Images, "Image protocol: none|kitty")
	flags.String("log-level", def.LogLevel, "Log level: debug|info|warn|error")
	flags.BoolVar(&debug, "debug", false, "Shorthand for --log-level=debug")
	flags.BoolVar(&listThemes, "list-themes", false, "List available syntax themes")
	flags.BoolVar(&listStyles, "list-styles", false, "List available markdown styles")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&boring, "boring", "b", false, "Generate output without ANSI styling")
	flags.BoolVar(&strict, "strict", false, "Reject invalid UTF-8 and binary input")
	flags.BoolVar(&keepFront, "front-matter", false, "Render leading YAML/TOML front matter instead of dropping it")
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	flags.StringVar(&writeConfig, "write-config", "", "Write the effective config to this path and exit")
	flags.BoolVarP(&showVersion, "version", "V", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdriver [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}
	if listThemes {
		printList(stdout, mdriver.SyntaxThemes())
		return 0
	}
	if listStyles {
		printList(stdout, mdriver.AvailableThemes())
		return 0
	}

	if debug {
		_ = flags.Set("log-level", "debug")
	}
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	if writeConfig != "" {
		if err := cfg.Write(writeConfig); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		return 0
	}

	logger := newLogger(stderr, cfg.LogLevel)

	theme, _ := mdriver.ThemeByName(cfg.Style)
	if boring {
		theme = mdriver.BoringTheme()
	}
	osc8, err := resolveOSC8(cfg.OSC8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid osc8 %q: %v\n", cfg.OSC8, err)
		return 2
	}
	protocol, err := mdriver.ParseImageProtocol(cfg.Images)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	inputs := flags.Args()
	reader, closer, err := openInputs(inputs, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	opts := []mdriver.RenderOption{
		mdriver.WithOSC8(osc8),
		mdriver.WithSyntaxTheme(cfg.Theme),
		mdriver.WithImages(protocol),
		mdriver.WithFrontMatter(keepFront),
		mdriver.WithLogger(logger),
	}
	if protocol != mdriver.ImageNone {
		resolver := imaging.NewResolver(logger)
		resolver.BaseDir = imageBaseDir(inputs)
		opts = append(opts, mdriver.WithImageResolver(resolver))
	}
	if boring {
		opts = append(opts, mdriver.WithHighlighter(mdriver.PlainHighlighter()))
	}
	width := resolveWidth(cfg.Width)
	logger.Debug().Int("width", width).Str("style", theme.Name()).Str("theme", cfg.Theme).Bool("osc8", osc8).Msg("rendering")

	if simulate {
		err = mdriver.StreamSimulate(mdriver.StreamSimulateRequest{
			Reader:    reader,
			Writer:    writer,
			Width:     width,
			Theme:     theme,
			ChunkSize: simChunkSize,
			Delay:     simDelay,
			Options:   opts,
		})
	} else {
		err = mdriver.Render(mdriver.RenderRequest{
			Reader:  reader,
			Writer:  writer,
			Width:   width,
			Theme:   theme,
			Options: opts,
			Strict:  strict,
		})
	}
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func printList(w io.Writer, names []string) {
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return min(terminalWidth(defaultWidth), defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdriver.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// imageBaseDir resolves relative image paths against the directory of the
// first local input.
func imageBaseDir(inputs []string) string {
	for _, raw := range inputs {
		u, err := url.Parse(raw)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			continue
		}
		path := raw
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}
		return filepath.Dir(normalizePath(path))
	}
	return ""
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	if dir := filepath.Dir(clean); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
