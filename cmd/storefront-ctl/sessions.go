package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	redisadapter "github.com/target/storefront-admin/internal/adapters/redis"
	"github.com/target/storefront-admin/internal/bootstrap"
	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/service"
)

// withRedis connects to Redis for the duration of fn.
func withRedis(cmdCtx *commandContext, fn func(ctx context.Context, client redis.UniversalClient) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()
	return fn(ctx, client)
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("list-sessions takes no arguments, got %q", args)
	}
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		store := redisadapter.NewSessionStoreWithPrefix(client, cmdCtx.Config.Auth.SessionPrefix)
		ids, err := store.IDs(ctx)
		if err != nil {
			return err
		}
		sort.Strings(ids)

		w := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
		if err := writeln(w, "Session\tUser\tRole\tExpires"); err != nil {
			return fmt.Errorf("write session header: %w", err)
		}
		for _, id := range ids {
			sess, getErr := store.Get(ctx, id)
			if errors.Is(getErr, redisadapter.ErrNotFound) {
				continue
			}
			if getErr != nil {
				return fmt.Errorf("load session %s: %w", shortID(id), getErr)
			}
			if err := writef(w, "%s\t%s\t%s\t%s\n",
				shortID(id), sess.User.Email, sess.User.Role, sess.ExpiresAt.UTC().Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("write session row: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "\n%d session(s)\n", len(ids))
	})
}

// shortID keeps session IDs out of terminal scrollback.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}

type purgeOptions struct {
	Yes bool
}

func parsePurgeFlags(args []string) (purgeOptions, error) {
	fs := flag.NewFlagSet("purge-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := purgeOptions{}
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return purgeOptions{}, err
	}
	return opts, nil
}

func runPurgeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeFlags(args)
	if err != nil {
		return err
	}
	prefix := cmdCtx.Config.Auth.SessionPrefix
	if err := confirmAction(cmdCtx, confirmOptions{Yes: opts.Yes, Target: fmt.Sprintf("keys %q", prefix+"*")},
		"delete all admin sessions"); err != nil {
		return err
	}
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		n, purgeErr := redisadapter.NewSessionStoreWithPrefix(client, prefix).Purge(ctx)
		if purgeErr != nil {
			return purgeErr
		}
		cmdCtx.Logger.Info("sessions purged", "count", n)
		return writef(cmdCtx.Out, "Deleted %d session(s).\n", n)
	})
}

func runFlushCategories(cmdCtx *commandContext, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("flush-categories takes no arguments, got %q", args)
	}
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		ttl := cmdCtx.Config.Cache.CategoryTreeTTL
		if ttl <= 0 {
			return writeln(cmdCtx.Out, "Category caching is disabled; nothing to flush.")
		}
		categories := service.NewCategoryService(service.CategoryServiceOptions{
			Cache:  data.NewRedisCacheRepo(client),
			TTL:    ttl,
			Logger: cmdCtx.Logger,
		})
		categories.FlushTree(ctx)
		return writeln(cmdCtx.Out, "Category tree cache flushed.")
	})
}
