package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/export"
	"github.com/aidar/leave-tracker/internal/repository/file"
)

type ImportCmd struct {
	Path string `arg:"" type:"existingfile" help:"Leave data file to import."`
}

func (c *ImportCmd) Run(ctx *cmdContext) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	snapshots, err := file.DecodeImport(data)
	if err != nil {
		return fmt.Errorf("%v: %w", c.Path, err)
	}

	count, err := ctx.service.Replace(ctx.ctx, snapshots)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d team members from %v\n", count, c.Path)

	return nil
}

type ExportCmd struct {
	Format string `short:"f" default:"ics" enum:"ics,csv" help:"Output format: ics or csv."`
	Output string `short:"o" type:"path" help:"File to write. Default is stdout."`
}

func (c *ExportCmd) Run(ctx *cmdContext) error {
	members := ctx.service.ListMembers(ctx.ctx)
	year := ctx.service.Year()

	if c.Output == "" {
		return c.write(os.Stdout, members, year, ctx.service.Now())
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}

	err = c.write(f, members, year, ctx.service.Now())
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	info, err := os.Stat(c.Output)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d leave days of %d team members to %v (%v)\n",
		len(export.Entries(members, year)), len(members), c.Output, humanize.Bytes(uint64(info.Size())))

	return nil
}

func (c *ExportCmd) write(w io.Writer, members []*domain.TeamMember, year int, now time.Time) error {
	switch c.Format {
	case "csv":
		return export.WriteCSV(w, members, year)
	default:
		return export.WriteICS(w, members, year, now)
	}
}
