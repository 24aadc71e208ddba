// Package cmd implements the CLI command structure for capplan.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/capplan-go/internal/config"
	"github.com/nibzard/capplan-go/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the capplan CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("capplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	logger, err := logging.New(stderr, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Timestamps: cfg.Log.Timestamps,
		Caller:     cfg.Log.Caller,
		Prefix:     "capplan",
		File:       cfg.Log.File,
		MaxSizeMB:  logging.DefaultOptions().MaxSizeMB,
		MaxBackups: logging.DefaultOptions().MaxBackups,
		MaxAgeDays: logging.DefaultOptions().MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logger.Close()

	a := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	// Determine the subcommand; plan is the default
	subcommand := "plan"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "plan":
		return a.planCommand(remainingArgs)
	case "shift":
		return a.shiftCommand(remainingArgs)
	case "validate":
		return a.validateCommand(remainingArgs)
	case "example":
		return a.exampleCommand(remainingArgs)
	case "todo":
		return a.todoCommand(ctx, remainingArgs)
	case "resources":
		return a.resourcesCommand(ctx, remainingArgs)
	case "gantt":
		return a.ganttCommand(ctx, remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "import":
		return a.importCommand(ctx, remainingArgs)
	case "finish":
		return a.finishCommand(ctx, remainingArgs)
	case "serve":
		return a.serveCommand(ctx, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "capplan version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "capplan - capacity planning for serial and parallel task trees")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  capplan [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  plan [file]            Plan a project and print or write the result (default)")
	fmt.Fprintln(w, "  shift -deadline N [file]  Move the project deadline and re-plan")
	fmt.Fprintln(w, "  validate [file...]     Check documents against the schema")
	fmt.Fprintln(w, "  example                Print the example project (or -config for a sample config)")
	fmt.Fprintln(w, "  todo [file...]         List open tasks by start date")
	fmt.Fprintln(w, "  resources [file...]    List the resources used by projects")
	fmt.Fprintln(w, "  gantt [file...]        Draw a Gantt chart")
	fmt.Fprintln(w, "  tui [file...]          Browse projects in a terminal UI")
	fmt.Fprintln(w, "  import [file...]       Plan projects and add them to the store")
	fmt.Fprintln(w, "  finish <id>            Mark a stored project as finished")
	fmt.Fprintln(w, "  serve                  Serve the read-only HTTP API")
	fmt.Fprintln(w, "  version                Show version information")
	fmt.Fprintln(w, "  help                   Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Files are decoded by extension: .json, .jsonc, .yaml/.yml, .cbor.")
}

// projectPaths returns args, or the configured project file when args is
// empty.
func (a *app) projectPaths(args []string) []string {
	if len(args) == 0 {
		return []string{a.cfg.ProjectFile}
	}
	paths := make([]string, len(args))
	for i, p := range args {
		paths[i] = a.cfg.ResolvePath(p)
	}
	return paths
}

// singlePath accepts at most one positional argument.
func (a *app) singlePath(args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return a.projectPaths(args)[0], nil
}
