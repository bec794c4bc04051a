package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/logging"
	"climate-server/internal/schema"
)

const (
	appName = "climatedb"
	version = "dev"
)

const usage = `usage: %s <command>
  migrate  create the measurement/station schema in SQLITE_PATH
  verify   check SQLITE_PATH against the declared schema
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg, version, appName))

	ctx := context.Background()
	switch os.Args[1] {
	case "migrate":
		cfg.ReadOnly = false
		err = withDB(ctx, cfg, func(conn *sql.DB) error {
			return schema.Migrate(ctx, conn)
		})
		if err == nil {
			fmt.Println("migrations applied")
		}
	case "verify":
		cfg.ReadOnly = true
		err = withDB(ctx, cfg, func(conn *sql.DB) error {
			return schema.Verify(ctx, conn)
		})
		if err == nil {
			fmt.Println("schema ok")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func withDB(ctx context.Context, cfg config.Config, fn func(conn *sql.DB) error) error {
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()
	return fn(conn)
}
