package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/nibzard/capplan-go/internal/api"
	"github.com/nibzard/capplan-go/internal/codec"
	"github.com/nibzard/capplan-go/internal/planner"
	"github.com/nibzard/capplan-go/internal/store"
)

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, a.cfg.Store, a.logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.cfg.Store.Backend, err)
	}
	return s, nil
}

// importCommand plans each project and inserts it into the store under the
// next free numeric id.
func (a *app) importCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan import", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := a.projectPaths(fs.Args())

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	for _, path := range paths {
		p, err := codec.LoadProject(path)
		if err != nil {
			return err
		}
		if err := planner.Plan(p); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		id, err := store.NextProjectID(ctx, s)
		if err != nil {
			return err
		}
		p.Meta()["id"] = id
		recID, err := s.Insert(ctx, planner.Serialize(p))
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		a.logger.Info("imported", "project", p.Title(), "id", id, "record", recID)
		fmt.Fprintf(a.stdout, "%d\t%s\n", id, p.Title())
	}
	return nil
}

// finishCommand marks the active project with the given id as finished, which
// hides it from the API.
func (a *app) finishCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan finish", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("finish: expected one project id")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("finish: invalid project id %q", fs.Arg(0))
	}

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	rec, err := store.FinishProject(ctx, s, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "finished %d\t%s\n", id, rec.Document.Title)
	return nil
}

// serveCommand serves the HTTP API until ctx is cancelled.
func (a *app) serveCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(context.Background())

	srv := api.NewServer(s, a.logger.Logger, a.cfg.API.Root)
	return srv.ListenAndServe(ctx, a.cfg.API.Addr)
}
