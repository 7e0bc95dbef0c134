package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgostarter/i/l"

	"github.com/hplc-lab/trace-viewer/internal/schema"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/config"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/db"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/source"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/utils"
)

func main() {
	logger := l.NewConsoleLoggerWrapper().WithFields(l.StringField(l.ClsKey, "ingest"))

	if err := run(logger); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("ingest failed")
	}
}

func run(logger l.Wrapper) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	files, err := source.ScanDirectory(ctx, cfg.Dir, cfg.Pattern)
	if err != nil {
		return err
	}
	logger.Infof("found %d files in %s (pattern=%s)", len(files), cfg.Dir, cfg.Pattern)

	rows, err := utils.BuildTraceRows(ctx, files, cfg.Workers)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.Resorted {
			logger.WithFields(l.StringField("file", row.FileName)).Warn("samples not time ordered, sorted")
		}
	}

	rows, skipped := utils.OmitEmpty(rows)
	if len(skipped) > 0 {
		logger.Warnf("skipping %d files without valid time,value lines: %s", len(skipped), strings.Join(skipped, ", "))
	}

	if cfg.DryRun {
		for _, row := range rows {
			logger.Infof("dry-run: would upsert file=%s name=%q points=%d t=[%g,%g]",
				row.FileName, row.Name, row.Summary.Count, row.Summary.TMin, row.Summary.TMax)
		}
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := schema.Ensure(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	stored, err := db.FetchChecksums(ctx, pool, utils.FileNames(rows))
	if err != nil {
		return err
	}

	pending := utils.FilterChanged(rows, stored)
	if len(pending) == 0 {
		logger.Infof("no new or changed traces (%d up to date)", len(rows))
		return nil
	}

	replaced := utils.ReplacedIDs(pending, stored)
	for fileName, id := range replaced {
		logger.WithFields(l.StringField("file", fileName), l.StringField("trace", strconv.FormatInt(id, 10))).
			Info("checksum changed, replacing stored trace")
	}

	ids, err := db.UpsertTraces(ctx, pool, pending)
	if err != nil {
		return err
	}

	logger.Infof("stored %d traces (%d new, %d replaced, %d unchanged)",
		len(ids), len(ids)-len(replaced), len(replaced), len(rows)-len(pending))
	return nil
}
