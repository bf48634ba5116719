package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/target/storefront-admin/internal/bootstrap"
	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/domain/model"
)

type activityOptions struct {
	Resource string
	Actor    string
	Limit    int
	JSON     bool
}

func parseActivityFlags(args []string) (activityOptions, error) {
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := activityOptions{}
	fs.StringVar(&opts.Resource, "resource", "", "Only show entries for this resource type (e.g. product)")
	fs.StringVar(&opts.Actor, "actor", "", "Only show entries by this admin email")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum entries to print")
	fs.BoolVar(&opts.JSON, "json", false, "Print entries as JSON")

	if err := fs.Parse(args); err != nil {
		return activityOptions{}, err
	}
	if opts.Limit <= 0 {
		return activityOptions{}, errors.New("--limit must be greater than zero")
	}
	return opts, nil
}

func runActivity(cmdCtx *commandContext, args []string) error {
	opts, err := parseActivityFlags(args)
	if err != nil {
		return err
	}
	if !cmdCtx.Config.IsActivityLogEnabled() {
		return errors.New("activity log is disabled; set DB_ENABLED=true")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	entries, err := data.NewActivityRepo(db).List(ctx, &model.ActivityListOptions{
		Resource: opts.Resource,
		Actor:    opts.Actor,
		Limit:    opts.Limit,
	})
	if err != nil {
		return fmt.Errorf("list activity: %w", err)
	}

	if opts.JSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return printActivity(cmdCtx.Out, entries)
}

func printActivity(out io.Writer, entries []*model.ActivityEntry) error {
	if len(entries) == 0 {
		return writeln(out, "No activity recorded.")
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "When\tActor\tAction\tResource\tSummary"); err != nil {
		return fmt.Errorf("write activity header: %w", err)
	}
	for _, e := range entries {
		if err := writef(w, "%s\t%s\t%s\t%s/%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Actor, e.Action, e.Resource, e.ResourceID, e.Summary,
		); err != nil {
			return fmt.Errorf("write activity row %s: %w", e.ID, err)
		}
	}
	return w.Flush()
}
