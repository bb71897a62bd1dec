package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/docs"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/natsbus"
	"github.com/Mshivam2409/rustduino/internal/report"
)

// CatalogCmd implements the 'catalog' command.
type CatalogCmd struct {
	Sync bool `help:"Publish the catalog to the configured NATS key-value bucket"`
}

func (c *CatalogCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	cat, err := docs.Scan(cfg.Docs.Path, cfg.Docs.Extensions)
	if err != nil {
		return err
	}
	for id, paths := range cat.Duplicates() {
		slog.Warn("Duplicate document id", logfields.DocID(id), slog.String("paths", strings.Join(paths, ", ")))
	}

	out := g.out()
	if report.Format(root.OutputFormat) == report.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat.Documents()); err != nil {
			return err
		}
	} else {
		for _, d := range cat.Documents() {
			if _, err := fmt.Fprintf(out, "%-32s %-40s %s\n", d.ID, d.Path, d.Title); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "%d documents\n", cat.Len()); err != nil {
			return err
		}
	}

	if !c.Sync {
		return nil
	}
	if cfg.Oracle.NATS.URL == "" {
		return ferrors.ConfigError("oracle.nats.url is required for --sync").UserAction().Build()
	}
	ctx := context.Background()
	client, err := build.ConnectNATS(ctx, natsbus.Options{URL: cfg.Oracle.NATS.URL, Bucket: cfg.Oracle.NATS.Bucket})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	put, removed, err := client.SyncCatalog(ctx, cat)
	if err != nil {
		return err
	}
	slog.Info("Catalog synced",
		slog.String("bucket", cfg.Oracle.NATS.Bucket),
		slog.Int("put", put),
		slog.Int("removed", removed))
	return nil
}
