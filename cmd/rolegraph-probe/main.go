package main

import (
	"context"
	"os"
	"time"

	"code.cloudfoundry.org/clock"
	flags "github.com/jessevdk/go-flags"
	"github.com/rolegraph/rolegraph/authz"
	cmdflags "github.com/rolegraph/rolegraph/cmd/flags"
	"github.com/rolegraph/rolegraph/internal/migrations"
	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/metrics/statsdx"
	"github.com/rolegraph/rolegraph/monitor"
	"github.com/rolegraph/rolegraph/repos"
	"github.com/rolegraph/rolegraph/repos/db"
	"github.com/rolegraph/rolegraph/repos/inmemory"
	uuid "github.com/satori/go.uuid"
)

const ProbeHistogramWindow = 5 // Minutes

type options struct {
	DB cmdflags.DBFlag `group:"DB" namespace:"db"`

	StatsD cmdflags.StatsDFlag `group:"StatsD" namespace:"statsd"`

	Logger cmdflags.LagerFlag

	Migrate    bool          `long:"migrate" description:"Apply migrations before probing"`
	Frequency  time.Duration `long:"frequency" description:"Frequency with which the probe is issued" default:"5s"`
	MaxLatency time.Duration `long:"max-latency" description:"Time after which a probe API call is considered to have failed" default:"100ms"`
	Timeout    time.Duration `long:"timeout" description:"Time after which the probe will cancel a run" default:"10s"`
}

func main() {
	parserOpts := &options{}
	parser := flags.NewParser(parserOpts, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		os.Exit(1)
	}

	logger := parserOpts.Logger.Logger("rolegraph-probe")

	logger.Debug(starting)
	defer logger.Debug(finished)

	statsDClient, err := parserOpts.StatsD.Statter("")
	if err != nil {
		logger.Error(failedToConnectToStatsD, err)
		os.Exit(1)
	}
	defer statsDClient.Close()

	store, err := openStore(logger, parserOpts)
	if err != nil {
		os.Exit(1)
	}

	manager := authz.NewManager(
		logger.WithName("authz"),
		store,
		store,
		store,
		store,
		authz.WithStatter(statsdx.NewStatter(logger.WithName("metrics"), statsDClient)),
	)

	probe := monitor.NewProbe(
		manager,
		monitor.WithTimeout(parserOpts.Timeout),
		monitor.WithMaxLatency(parserOpts.MaxLatency),
	)

	statter := &monitor.Statter{
		Statter:   statsDClient,
		Histogram: monitor.NewHistogram(ProbeHistogramWindow, 0, time.Minute*10, 3),
	}

	runProbeWithFrequency(logger.WithName("probe"), probe, statter, parserOpts.Frequency)
}

func openStore(logger logx.Logger, parserOpts *options) (repos.Store, error) {
	if parserOpts.DB.Driver == "in-memory" {
		return inmemory.NewStore(clock.NewClock()), nil
	}

	conn, err := parserOpts.DB.Connect(logger.WithName("db"))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	if parserOpts.Migrate {
		migrateLogger := logger.WithName("migrate")
		err = sqlx.ApplyMigrations(ctx, migrateLogger, conn, migrations.TableName, migrations.Migrations)
		if err != nil {
			migrateLogger.Error(failedToApplyMigrations, err)
			return nil, err
		}
	}

	err = sqlx.VerifyAppliedMigrations(ctx, logger.WithName("verify-migrations"), conn, migrations.TableName, migrations.Migrations)
	if err != nil {
		return nil, err
	}

	return db.NewStore(conn), nil
}

func runProbeWithFrequency(logger logx.Logger, probe *monitor.Probe, statter *monitor.Statter, frequency time.Duration) {
	ctx := context.Background()

	ticker := time.NewTicker(frequency)
	rotateTicker := time.NewTicker(time.Minute)

	for {
		select {
		case <-rotateTicker.C:
			statter.Rotate()
		case <-ticker.C:
			probe.Cycle(ctx, logger, statter, uuid.NewV4().String())
			statter.SendStats(logger)
		}
	}
}
