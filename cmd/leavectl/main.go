package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/aidar/leave-tracker/internal/app"
	"github.com/aidar/leave-tracker/internal/config"
	"github.com/aidar/leave-tracker/internal/logger"
	"github.com/aidar/leave-tracker/internal/service"
)

var cli struct {
	Storage  string `default:"file" enum:"file,sqlite,postgres" env:"STORAGE_DRIVER" help:"Storage driver: file, sqlite or postgres."`
	File     string `default:"leave_data.json" env:"STORAGE_FILE_PATH" type:"path" help:"JSON file used by the file driver."`
	SQLite   string `name:"sqlite" default:"leave_tracker.db" env:"STORAGE_SQLITE_PATH" type:"path" help:"Database file used by the sqlite driver."`
	DSN      string `name:"dsn" env:"DATABASE_URL" help:"PostgreSQL connection string used by the postgres driver."`
	LogLevel string `default:"warn" env:"LOG_LEVEL" help:"Log level."`

	List   ListCmd   `cmd:"" help:"List team members and their leave dates."`
	Add    AddCmd    `cmd:"" help:"Add a team member with leave dates or a date interval."`
	Remove RemoveCmd `cmd:"" help:"Remove a team member."`
	Edit   EditCmd   `cmd:"" help:"Change a team member's name or leave dates."`
	Table  TableCmd  `cmd:"" help:"Print the leave table for the current year."`
	Import ImportCmd `cmd:"" help:"Replace all members with the contents of a saved leave data file."`
	Export ExportCmd `cmd:"" help:"Export leave dates as iCalendar or CSV."`
}

type cmdContext struct {
	ctx     context.Context
	service *service.LeaveService
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("leavectl"),
		kong.Description("Track team members' leave dates."),
		kong.ShortUsageOnError(),
	)

	ctx := context.Background()
	log := logger.New(cli.LogLevel, "text", os.Stderr)

	store, err := app.OpenStore(ctx, storageConfig(), log)
	kctx.FatalIfErrorf(err)

	// Every command persists its changes immediately
	leases := service.NewLeaseService(uuid.NewString(), service.DefaultLeaseTTL, nil)
	svc := service.NewLeaveService(store, leases, service.Options{
		Autosave: true,
		Logger:   log,
	})

	err = svc.Load(ctx)
	if err == nil {
		err = kctx.Run(&cmdContext{
			ctx:     ctx,
			service: svc,
		})
	}

	closeErr := store.Close()
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(closeErr)
}

func storageConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Driver:     cli.Storage,
			FilePath:   cli.File,
			SQLitePath: cli.SQLite,
		},
		Database: config.DatabaseConfig{
			URL:      cli.DSN,
			MaxConns: 2,
			MinConns: 1,
		},
	}
}
