package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// errBackfillIncomplete is returned by backfill-slugs --strict when any
// vehicle could not be given a slug.
var errBackfillIncomplete = errors.New("backfill left vehicles without a slug")

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		r.migrateCommand(),
		r.backfillCommand(),
		r.exportCommand(),
	}
}

func (r *Runner) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{Name: "up", Usage: "Apply all pending migrations", Action: r.MigrateUp},
			{Name: "down", Usage: "Roll back the most recent migration", Action: r.MigrateDown},
			{Name: "status", Usage: "List migrations and whether they are applied", Action: r.MigrateStatus},
		},
	}
}

func (r *Runner) backfillCommand() *cli.Command {
	return &cli.Command{
		Name:  "backfill-slugs",
		Usage: "Assign a slug to every vehicle that lacks one",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
			&cli.BoolFlag{Name: "strict", Usage: "Exit non-zero when any vehicle fails"},
		},
		Action: r.BackfillSlugs,
	}
}

func (r *Runner) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the active inventory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv or json", Value: "csv"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout"},
		},
		Action: r.Export,
	}
}

// ---- migrate ---------------------------------------------------------------

// MigrateUp applies every pending migration.
func (r *Runner) MigrateUp(ctx context.Context, _ *cli.Command) error {
	return r.withDeps(ctx, func(d *Deps) error {
		results, err := d.Migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		if len(results) == 0 {
			r.logger.Info("schema is up to date")
			return nil
		}
		for _, res := range results {
			r.logger.Info("applied", "version", res.Source.Version, "file", res.Source.Path, "took", res.Duration)
		}
		return nil
	})
}

// MigrateDown rolls back one migration.
func (r *Runner) MigrateDown(ctx context.Context, _ *cli.Command) error {
	return r.withDeps(ctx, func(d *Deps) error {
		res, err := d.Migrator.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		r.logger.Info("rolled back", "version", res.Source.Version, "file", res.Source.Path)
		return nil
	})
}

// MigrateStatus prints one line per known migration.
func (r *Runner) MigrateStatus(ctx context.Context, _ *cli.Command) error {
	return r.withDeps(ctx, func(d *Deps) error {
		statuses, err := d.Migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, st := range statuses {
			applied := "pending"
			if st.State == goose.StateApplied {
				applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(r.output, "%-6d %-40s %s\n", st.Source.Version, st.Source.Path, applied)
		}
		return nil
	})
}

// ---- backfill --------------------------------------------------------------

// BackfillSlugs runs the slug backfill and reports what it did.
func (r *Runner) BackfillSlugs(ctx context.Context, cmd *cli.Command) error {
	return r.withDeps(ctx, func(d *Deps) error {
		report, err := d.Slugs.BackfillMissingSlugs(ctx)
		if err != nil {
			return fmt.Errorf("backfill slugs: %w", err)
		}

		if cmd.Bool("json") {
			enc := json.NewEncoder(r.output)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(r.output, "assigned %d slug(s), %d failure(s)\n", len(report.Succeeded), len(report.Failed))
			for _, f := range report.Failed {
				fmt.Fprintf(r.output, "  %s: %s\n", f.ID, f.Reason)
			}
		}

		if len(report.Failed) > 0 {
			r.logger.Warn("some vehicles still lack a slug", "count", len(report.Failed))
			if cmd.Bool("strict") {
				return errBackfillIncomplete
			}
		}
		return nil
	})
}

// ---- export ----------------------------------------------------------------

// Export writes the inventory as CSV or JSON.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != "csv" && format != "json" {
		return fmt.Errorf("export: unknown format %q (want csv or json)", format)
	}

	return r.withDeps(ctx, func(d *Deps) error {
		rows, err := d.Export.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		write := writeExportCSV
		if format == "json" {
			write = writeExportJSON
		}

		if path := cmd.String("output"); path != "" {
			err = writeFile(path, func(w io.Writer) error { return write(w, rows) })
		} else {
			err = write(r.output, rows)
		}
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		r.logger.Info("exported", "rows", len(rows), "format", format)
		return nil
	})
}

// writeFile creates path, runs fn on it and reports the close error, which
// is where a failed flush to disk surfaces.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

func writeExportCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeExportJSON writes an array of objects keyed by ExportColumns.
func writeExportJSON(w io.Writer, rows []domain.ExportRow) error {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := row.Record()
		obj := make(map[string]string, len(rec))
		for i, col := range domain.ExportColumns {
			obj[col] = rec[i]
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
