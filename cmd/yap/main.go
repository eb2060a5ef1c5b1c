// Package main provides the yap command, the front end tooling for the Yap
// language: parsing, checking, formatting and inspecting source files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/yap-lang/yap/internal/cli"
	"github.com/yap-lang/yap/internal/diagnostic"
)

const toolName = "yap"

var commands = []cli.CommandInfo{
	{Name: "parse", Usage: "yap parse FILE...", Description: "print the syntax tree of each file",
		Examples: []string{"yap parse main.yap"}},
	{Name: "check", Usage: "yap check [-watch] [PATH...]", Description: "report syntax errors",
		Examples: []string{"yap check src", "yap check -watch src"}},
	{Name: "fmt", Usage: "yap fmt [-w | -l | -d] [PATH...]", Description: "print files in canonical form",
		Examples: []string{"yap fmt -w src", "yap fmt -d main.yap"}},
	{Name: "tokens", Usage: "yap tokens FILE", Description: "print the token stream of a file"},
	{Name: "imports", Usage: "yap imports [-lowest] FILE...", Description: "list imports and exports, resolving versions"},
	{Name: "repl", Usage: "yap repl", Description: "parse input interactively"},
	{Name: "version", Usage: "yap version [-json]", Description: "show version information"},
}

// app carries what every subcommand needs.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	config *cli.Config
	logger *cli.Logger
	color  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one yap invocation and returns its exit status: 0 on
// success, 1 when inputs have errors, 2 on usage errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet(toolName, flag.ContinueOnError)
	global.SetOutput(stderr)
	var (
		configPath = global.String("config", "", "config file (default: nearest "+cli.ConfigFileName+")")
		verbose    = global.Bool("v", false, "verbose logging")
		debug      = global.Bool("debug", false, "debug logging")
		color      = global.String("color", "", "colour diagnostics: auto, always or never")
	)
	global.Usage = func() { cli.PrintUsage(stderr, toolName, commands) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	config, err := cli.LoadConfig(*configPath, ".")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	config.Verbose = config.Verbose || *verbose
	config.Debug = config.Debug || *debug
	if *color != "" {
		config.Color = cli.ColorMode(*color)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		config: config,
		logger: cli.NewLoggerTo(stderr, config.Verbose, config.Debug),
	}
	if f, ok := stderr.(*os.File); ok {
		a.color = config.UseColor(f)
	} else {
		a.color = config.Color == cli.ColorAlways
	}
	if config.ConfigFile != "" {
		a.logger.Debug("using config %s", config.ConfigFile)
	}

	sub, rest := global.Arg(0), global.Args()[1:]
	switch sub {
	case "help", "-h", "--help":
		if len(rest) > 0 {
			for _, cmd := range commands {
				if cmd.Name == rest[0] {
					cli.PrintCommandUsage(stdout, toolName, cmd)
					return 0
				}
			}
		}
		cli.PrintUsage(stdout, toolName, commands)
		return 0
	case "parse":
		return a.cmdParse(ctx, rest)
	case "check":
		return a.cmdCheck(ctx, rest)
	case "fmt":
		return a.cmdFmt(ctx, rest)
	case "tokens":
		return a.cmdTokens(rest)
	case "imports":
		return a.cmdImports(ctx, rest)
	case "repl":
		return a.cmdRepl(rest)
	case "version":
		return a.cmdVersion(rest)
	default:
		fmt.Fprintf(stderr, "yap: unknown command %q\n", sub)
		cli.PrintUsage(stderr, toolName, commands)
		return 2
	}
}

// flags returns a flag set for subcommand name that prints its usage.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(toolName+" "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		for _, cmd := range commands {
			if cmd.Name == name {
				cli.PrintCommandUsage(a.stderr, toolName, cmd)
			}
		}
		fs.PrintDefaults()
	}
	return fs
}

func (a *app) diagnostics() diagnostic.DiagnosticConfig {
	config := diagnostic.DefaultConfig()
	config.Color = a.color
	config.MaxErrors = a.config.MaxErrors
	config.Context = a.config.Context
	return config
}

func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "yap: %v\n", err)
	return 1
}
