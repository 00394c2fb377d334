// Command migrate brings a PostgreSQL database to the state declared in
// schema/schema.sql using Atlas' declarative schema apply.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"parkpass/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	schemaPath := flag.String("schema", "schema/schema.sql", "desired-state schema file")
	devURL := flag.String("dev-url", "docker://postgres/17/dev?search_path=public", "Atlas dev database used to normalise the schema")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	dryRun := flag.Bool("dry-run", false, "print the planned statements without applying them")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if err := run(*schemaPath, *devURL, *atlasBin, *dryRun, *timeout); err != nil {
		slog.Error("migration failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(schemaPath, devURL, atlasBin string, dryRun bool, timeout time.Duration) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	// Only the DB section is needed; the server's required settings are not.
	var dbCfg config.DBConfig
	if err := envconfig.Process("", &dbCfg); err != nil {
		return fmt.Errorf("failed to process env config: %w", err)
	}

	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("schema file: %w", err)
	}

	client, err := atlasexec.NewClient(filepath.Dir(abs), atlasBin)
	if err != nil {
		return fmt.Errorf("failed to init atlas client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:    atlasURL(dbCfg),
		To:     "file://" + filepath.ToSlash(abs),
		DevURL: devURL,
		DryRun: dryRun,
	})
	if err != nil {
		return fmt.Errorf("schema apply: %w", err)
	}

	if dryRun {
		slog.Info("planned changes", "count", len(res.Changes.Pending))
		for _, stmt := range res.Changes.Pending {
			fmt.Println(stmt)
		}
		return nil
	}
	slog.Info("schema applied", "database", dbCfg.DBName, "statements", len(res.Changes.Applied))
	return nil
}

// atlasURL is BuildDSN without the pgx-only timezone parameter and scoped to
// the public schema.
func atlasURL(c config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("search_path", "public")
	u.RawQuery = q.Encode()
	return u.String()
}
