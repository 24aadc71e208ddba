package cmd

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/nibzard/capplan-go/internal/codec"
	"github.com/nibzard/capplan-go/internal/config"
	"github.com/nibzard/capplan-go/internal/planner"
)

// planCommand plans one project and writes the planned document.
func (a *app) planCommand(args []string) error {
	fs := flag.NewFlagSet("capplan plan", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	output := fs.String("o", "", "Write the planned project to this file")
	inPlace := fs.Bool("w", false, "Write the planned project back to its file")
	format := fs.String("format", string(codec.FormatJSON), "Output format for stdout (json|jsonc|yaml|cbor)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.singlePath(fs.Args())
	if err != nil {
		return err
	}
	if *output != "" && *inPlace {
		return fmt.Errorf("-o and -w are mutually exclusive")
	}
	f, err := codec.ParseFormat(*format)
	if err != nil {
		return err
	}

	p, err := codec.LoadProject(path)
	if err != nil {
		return err
	}
	if err := planner.Plan(p); err != nil {
		return err
	}
	a.logger.Info("planned", "project", p.Title(), "start", p.Start(), "end", p.End(), "progress", p.Progress())

	switch {
	case *inPlace:
		return codec.SaveProject(path, p)
	case *output != "":
		return codec.SaveProject(a.cfg.ResolvePath(*output), p)
	default:
		return a.writeDocument(planner.Serialize(p), f)
	}
}

// shiftCommand moves the deadline of a project and re-plans it.
func (a *app) shiftCommand(args []string) error {
	fs := flag.NewFlagSet("capplan shift", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	deadline := fs.String("deadline", "", "New project deadline (required)")
	output := fs.String("o", "", "Write the shifted project to this file instead of in place")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *deadline == "" {
		return fmt.Errorf("shift: -deadline is required")
	}
	value, err := strconv.ParseFloat(*deadline, 64)
	if err != nil {
		return fmt.Errorf("shift: invalid deadline %q", *deadline)
	}
	path, err := a.singlePath(fs.Args())
	if err != nil {
		return err
	}

	p, err := codec.LoadProject(path)
	if err != nil {
		return err
	}
	previous := p.Deadline()
	if !p.ShiftDeadline(planner.At(value)) {
		fmt.Fprintf(a.stdout, "%s: deadline already %s\n", p.Title(), previous)
		return nil
	}
	if err := planner.Plan(p); err != nil {
		return err
	}

	target := path
	if *output != "" {
		target = a.cfg.ResolvePath(*output)
	}
	if err := codec.SaveProject(target, p); err != nil {
		return err
	}
	a.logger.Debug("shifted", "project", p.Title(), "file", target)
	fmt.Fprintf(a.stdout, "%s: deadline %s -> %s, start %s\n", p.Title(), previous, p.Deadline(), p.Start())
	return nil
}

// validateCommand checks every document against the schema and the
// structural rules.
func (a *app) validateCommand(args []string) error {
	fs := flag.NewFlagSet("capplan validate", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := a.projectPaths(fs.Args())

	invalid := 0
	for _, path := range paths {
		doc, err := codec.LoadFile(path)
		if err != nil {
			invalid++
			fmt.Fprintf(a.stdout, "FAIL %s\n  %v\n", path, err)
			continue
		}
		result := codec.Validate(doc, codec.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
		for _, w := range result.Warnings {
			a.logger.Warn(w, "file", path)
		}
		if result.Valid {
			fmt.Fprintf(a.stdout, "ok   %s\n", path)
			continue
		}
		invalid++
		fmt.Fprintf(a.stdout, "FAIL %s\n", path)
		for _, e := range result.Errors {
			fmt.Fprintf(a.stdout, "  %v\n", e)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d documents invalid", invalid, len(paths))
	}
	return nil
}

// exampleCommand prints the planned example project, or a sample config.
func (a *app) exampleCommand(args []string) error {
	fs := flag.NewFlagSet("capplan example", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	output := fs.String("o", "", "Write the example project to this file")
	sampleConfig := fs.Bool("config", false, "Print a sample capplan.toml instead")
	format := fs.String("format", string(codec.FormatJSON), "Output format for stdout (json|jsonc|yaml|cbor)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *sampleConfig {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}
	f, err := codec.ParseFormat(*format)
	if err != nil {
		return err
	}

	p := planner.ExampleProject()
	if err := planner.Plan(p); err != nil {
		return err
	}
	if *output != "" {
		return codec.SaveProject(a.cfg.ResolvePath(*output), p)
	}
	return a.writeDocument(planner.Serialize(p), f)
}

func (a *app) writeDocument(doc *planner.Document, f codec.Format) error {
	data, err := codec.Marshal(doc, f)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}
