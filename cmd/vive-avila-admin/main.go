package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vive-avila/ui-api/config"
	"github.com/vive-avila/ui-api/internal/bootstrap"
	"github.com/vive-avila/ui-api/internal/devseed"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development directory records",
			run:         runDBSeed,
		},
		"users-list": {
			name:        "users-list",
			description: "List directory records",
			run:         runUsersList,
		},
		"session-clear": {
			name:        "session-clear",
			description: "Clear the cached session from Redis",
			run:         runSessionClear,
		},
	}
}

func printUsage() {
	fmt.Fprintf(os.Stdout, "Usage: vive-avila-admin <command> [flags]\n\n")
	fmt.Fprintf(os.Stdout, "Available commands:\n")
	for _, c := range commands() {
		fmt.Fprintf(os.Stdout, "  %-16s %s\n", c.name, c.description)
	}
}

func runMigrate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultCommandTimeout, "maximum time to wait for migrations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultCommandTimeout, "maximum time to wait for the reset")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	seed := fs.Bool("seed", false, "seed development data after the reset")
	allowRemote := fs.Bool("allow-remote", false, "allow running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := guardRemoteHost(cmdCtx, *allowRemote); err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)
	if err := confirmAction(*yes, "reset schema of "+target); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if err := resetDatabase(ctx, db, cmdCtx.Config.Postgres.User); err != nil {
			return err
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		if *seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if err := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); err != nil {
				return fmt.Errorf("seed data: %w", err)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultCommandTimeout, "maximum time to wait for seeding")
	allowRemote := fs.Bool("allow-remote", false, "allow running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := guardRemoteHost(cmdCtx, *allowRemote); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		cmdCtx.Logger.Info("seeding development directory records")
		if err := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
		return nil
	})
}

func runUsersList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users-list", flag.ContinueOnError)
	timeout := fs.Duration("timeout", time.Minute, "maximum time to wait for the listing")
	limit := fs.Int("limit", 50, "maximum number of records to list")
	offset := fs.Int("offset", 0, "number of records to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT email, username, role, provider, created_at
			   FROM users
			  ORDER BY created_at
			  LIMIT $1 OFFSET $2`, *limit, *offset)
		if err != nil {
			return fmt.Errorf("query users: %w", err)
		}
		defer rows.Close() //nolint:errcheck

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tUSERNAME\tROLE\tPROVIDER\tCREATED")
		count := 0
		for rows.Next() {
			var email, username, role, provider string
			var createdAt time.Time
			if err := rows.Scan(&email, &username, &role, &provider, &createdAt); err != nil {
				return fmt.Errorf("scan user row: %w", err)
			}
			if role == "" {
				role = "student"
			}
			if provider == "" {
				provider = "native"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				email, username, role, provider, createdAt.Format(time.RFC3339))
			count++
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate user rows: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush listing: %w", err)
		}

		fmt.Fprintf(os.Stdout, "\n%d record(s)\n", count)
		return nil
	})
}

func runSessionClear(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("session-clear", flag.ContinueOnError)
	key := fs.String("key", cmdCtx.Config.Session.CacheKey, "redis key holding the cached session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	deleted, err := client.Del(cmdCtx.Ctx, *key).Result()
	if err != nil {
		return fmt.Errorf("delete session key: %w", err)
	}
	cmdCtx.Logger.Info("session cache cleared", "key", *key, "deleted", deleted)
	return nil
}

func resetDatabase(ctx context.Context, db *sql.DB, user string) error {
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user = strings.TrimSpace(user); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func confirmAction(yes bool, action string) error {
	if yes {
		return nil
	}

	fmt.Fprintf(os.Stdout, "About to %s. Continue? [y/N]: ", action)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errors.New("aborted by operator")
	}
}
