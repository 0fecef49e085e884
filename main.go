package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/cuebasic/internal/config"
	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/formatter"
	"github.com/mcncl/cuebasic/internal/lexer"
	"github.com/mcncl/cuebasic/internal/log"
	"github.com/mcncl/cuebasic/internal/merge"
	"github.com/mcncl/cuebasic/internal/models"
	"github.com/mcncl/cuebasic/internal/parser"
	"github.com/mcncl/cuebasic/internal/profile"
)

// CLI defines the command-line interface
var CLI struct {
	Path          string `arg:"" optional:"" help:"Path to the source file. Reads stdin when omitted or \"-\"."`
	Output        string `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Tokens        bool   `help:"Print the token stream to stderr instead of merging." short:"t"`
	Unmerged      bool   `help:"Print the flattened path assignments to stderr instead of merging." short:"u"`
	LastWriteWins bool   `help:"Let later assignments replace earlier ones instead of failing." name:"last-write-wins"`
	Format        string `help:"Output format: text, json, yaml or env." short:"f"`
	Indent        int    `help:"Indentation width for json and yaml output." default:"-1"`
	EnvPrefix     string `help:"Prefix for env output keys." name:"env-prefix"`
	Config        string `help:"Path to a config file. Defaults to the nearest .cuebasic.yml." short:"c" type:"path"`
	LogLevel      string `help:"Diagnostic level: trace, debug, info, warn or error." name:"log-level"`
	LogFormat     string `help:"Diagnostic format: text or json." name:"log-format"`
	Profile       string `help:"Write a runtime profile for this run (cpu, mem, ...)." placeholder:"MODE"`
	ProfileDir    string `help:"Directory for profile output." name:"profile-dir" type:"path"`
	Debug         bool   `help:"Enable debug logging." short:"d"`
	Version       bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	kong.Parse(&CLI,
		kong.Name("cuebasic"),
		kong.Description("Merge a declarative config document into a single value"),
		kong.UsageOnError(),
	)

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("cuebasic version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger := debugLogger(log.Config(os.Stderr, cfg.LogOptions()...), CLI.Debug)
	if configPath != "" {
		logger.Debug("loaded config", slog.String("path", configPath))
	}

	profiler, err := profile.Profiler{Mode: CLI.Profile, Path: CLI.ProfileDir, Quiet: !CLI.Debug}.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	err = run(&Context{
		Debug:  CLI.Debug,
		Config: cfg,
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	profiler.Stop()
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// overrides collects the flags that take precedence over the config file
func overrides() config.Overrides {
	o := config.Overrides{
		LastWriteWins: CLI.LastWriteWins,
		Format:        CLI.Format,
		EnvPrefix:     CLI.EnvPrefix,
		LogLevel:      CLI.LogLevel,
		LogFormat:     CLI.LogFormat,
	}
	if CLI.Indent >= 0 {
		indent := CLI.Indent
		o.Indent = &indent
	}
	return o
}

// debugLogger lowers logger to debug level when debug is set. A configured
// trace level is kept.
func debugLogger(logger log.Logger, debug bool) log.Logger {
	if !debug || logger.Level() <= log.LevelDebug {
		return logger
	}
	return logger.Wrap(log.WithLevel(log.LevelDebug))
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger

	// 1. Read the source
	src, err := readInput(ctx)
	if err != nil {
		return err
	}
	logger.Debug("read source", slog.String("path", sourceName()), slog.Int("bytes", len(src)))

	// 2. Lex
	tokens, err := tokenize(ctx, src)
	if err != nil {
		return err
	}

	// 3. Flatten into path assignments
	assignments, err := parser.Flatten(tokens)
	if err != nil {
		return err
	}
	logger.Debug("flattened source", slog.Int("tokens", len(tokens)), slog.Int("assignments", len(assignments)))

	if CLI.Unmerged {
		if err := formatter.DumpAssignments(ctx.Stderr, assignments); err != nil {
			return err
		}
	}

	// Dumps replace the merged output
	if CLI.Tokens || CLI.Unmerged {
		return nil
	}

	// 4. Merge
	m := merge.New(
		merge.WithStrict(!cfg.Merge.LastWriteWins),
		merge.WithLogger(logger),
	)
	value, err := m.Merge(assignments)
	if err != nil {
		return err
	}

	// 5. Output the result
	f, err := cfg.Formatter()
	if err != nil {
		return err
	}
	return writeOutput(ctx, f, value)
}

// tokenize lexes src, echoing every token to stderr when --tokens is set.
// Tokens read before a lex error are still echoed.
func tokenize(ctx *Context, src string) ([]lexer.Token, error) {
	if !CLI.Tokens {
		return lexer.Tokenize(src)
	}

	var tokens []lexer.Token
	var lexErr error
	for tok, err := range lexer.New(src).All() {
		if err != nil {
			lexErr = err
			break
		}
		tokens = append(tokens, tok)
	}
	if err := formatter.DumpTokens(ctx.Stderr, tokens); err != nil {
		return nil, err
	}
	if lexErr != nil {
		return nil, lexErr
	}
	return tokens, nil
}

func sourceName() string {
	if CLI.Path == "" || CLI.Path == "-" {
		return "<stdin>"
	}
	return CLI.Path
}

// readInput reads the source from the file argument or stdin
func readInput(ctx *Context) (string, error) {
	if CLI.Path != "" && CLI.Path != "-" {
		return parser.ReadFile(CLI.Path)
	}

	if ctx.Stdin == nil {
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Refuse to block on an interactive terminal
	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return "", errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	return parser.Read(ctx.Stdin)
}

// writeOutput writes the rendered value to the output file or stdout
func writeOutput(ctx *Context, f *formatter.Formatter, value *models.Value) error {
	if CLI.Output == "" {
		return f.Write(ctx.Stdout, value)
	}

	file, err := os.OpenFile(CLI.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
	}
	if err := f.Write(file, value); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
	}
	ctx.Logger.Info("wrote output", slog.String("path", CLI.Output))
	return nil
}
