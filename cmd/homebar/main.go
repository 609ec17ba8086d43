// Homebar resolves free-text home automation targets and executes commands
// against them.
//
// It serves a local webhook (GET /<action>/<value?>/<target>), publishes the
// resulting device commands to an MQTT bridge, stores named device groups in
// SQLite and optionally records command history in InfluxDB.
//
//	homebar --config configs/config.yaml
//	homebar --resolve "Office/Spotlights"
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "github.com/nickustinov/homebar/migrations"

	"github.com/nickustinov/homebar/internal/action"
	"github.com/nickustinov/homebar/internal/bridge"
	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/infrastructure/config"
	"github.com/nickustinov/homebar/internal/infrastructure/database"
	"github.com/nickustinov/homebar/internal/infrastructure/influxdb"
	"github.com/nickustinov/homebar/internal/infrastructure/logging"
	"github.com/nickustinov/homebar/internal/infrastructure/mdns"
	"github.com/nickustinov/homebar/internal/infrastructure/mqtt"
	"github.com/nickustinov/homebar/internal/resolver"
	"github.com/nickustinov/homebar/internal/webhook"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// envConfigPath overrides the default configuration path.
const envConfigPath = "HOMEBAR_CONFIG"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath  string
	resolve     string
	resolveSet  bool
	showVersion bool
}

// parseFlags parses the command line. --config falls back to HOMEBAR_CONFIG
// and then to config.DefaultPath.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("homebar", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", getConfigPath(), "path to the YAML configuration file")
	fs.StringVar(&opts.resolve, "resolve", "", "resolve a target against the configured snapshot, print the verdict and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.resolveSet = fs.Changed("resolve")
	return opts, nil
}

// getConfigPath returns HOMEBAR_CONFIG if set, otherwise the default path.
func getConfigPath() string {
	if path := os.Getenv(envConfigPath); path != "" {
		return path
	}
	return config.DefaultPath
}

// run is the application body, separated from main for testability.
//
// Parameters:
//   - ctx: Context cancelled on shutdown signals
//   - args: Command line arguments without the program name
//   - stdout: Destination for --version and --resolve output
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "homebar %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	if !opts.resolveSet {
		log.Info("starting homebar",
			"version", version,
			"commit", commit,
			"build_date", date,
			"config", opts.configPath,
		)
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}

	groups := group.NewRegistry(group.NewSQLiteRepository(db.DB))
	groups.SetLogger(log.Component("group"))
	if refreshErr := groups.Refresh(ctx); refreshErr != nil {
		return fmt.Errorf("loading groups: %w", refreshErr)
	}

	store := home.NewStore()
	if cfg.Snapshot.File != "" {
		snap, loadErr := home.LoadFile(cfg.Snapshot.File)
		if loadErr != nil {
			return fmt.Errorf("loading snapshot: %w", loadErr)
		}
		store.Publish(snap)
		rooms, services, scenes := snap.Counts()
		log.Info("snapshot loaded",
			"path", cfg.Snapshot.File,
			"rooms", rooms,
			"services", services,
			"scenes", scenes,
		)
	}

	if opts.resolveSet {
		engine := action.NewEngine(store, groups, nil)
		return printResolution(stdout, store.Current(), engine.Resolve(opts.resolve))
	}

	return serve(ctx, cfg, log, db, store, groups)
}

// serve wires the long-running components and blocks until ctx is done.
// Components shut down in reverse start order.
func serve(ctx context.Context, cfg *config.Config, log *logging.Logger, db *database.DB, store *home.Store, groups *group.Registry) error {
	var (
		mqttClient *mqtt.Client
		executor   *bridge.Executor
		err        error
	)
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))

		qos := byte(cfg.MQTT.QoS)
		executor = bridge.NewExecutor(mqttClient, qos, bridge.BreakerSettings{
			FailureThreshold: uint32(cfg.MQTT.Breaker.FailureThreshold), //nolint:gosec // validated min=1
			OpenTimeout:      time.Duration(cfg.MQTT.Breaker.OpenTimeout) * time.Second,
		})

		snapshots := bridge.NewSnapshotSync(store, cfg.Snapshot.Topic)
		snapshots.SetLogger(log.Component("snapshot"))
		if syncErr := snapshots.Start(mqttClient, qos); syncErr != nil {
			return fmt.Errorf("starting snapshot sync: %w", syncErr)
		}
	} else {
		executor = bridge.NewOfflineExecutor()
		log.Warn("MQTT disabled, commands will report the bridge as unavailable")
	}
	executor.SetLogger(log.Component("bridge"))

	engine := action.NewEngine(store, groups, executor)
	engine.SetLogger(log.Component("action"))

	metrics := webhook.NewMetrics()
	engine.SetVerdictObserver(metrics.ObserveVerdict)

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		engine.SetRecorder(influxClient)
		log.Info("command history enabled", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	if cfg.Webhook.Enabled {
		server, newErr := webhook.New(webhook.Deps{
			Config:    cfg.Webhook,
			Pro:       cfg.Licence.Pro,
			Logger:    log.Component("webhook"),
			Engine:    engine,
			Groups:    groups,
			Bridge:    executor,
			Snapshots: store,
			Metrics:   metrics,
			Version:   version,
		})
		if newErr != nil {
			return fmt.Errorf("creating webhook server: %w", newErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting webhook server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing webhook server", "error", closeErr)
			}
		}()

		if cfg.MDNS.Enabled {
			adv, advErr := mdns.Advertise(cfg.MDNS, server.Port(), version)
			if advErr != nil {
				log.Warn("mDNS advertisement failed", "error", advErr)
			} else {
				defer adv.Shutdown()
				log.Info("mDNS advertisement started", "service", cfg.MDNS.Service, "port", server.Port())
			}
		}
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// healthCheck verifies infrastructure connections. Disabled components are
// passed as nil and skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// printResolution writes a resolver verdict in a human-readable form.
func printResolution(w io.Writer, snap *home.Snapshot, result resolver.Result) error {
	var err error
	switch result.Kind {
	case resolver.Services, resolver.Ambiguous:
		_, err = fmt.Fprintf(w, "%s (%d)\n", result.Kind, len(result.Services))
		for _, svc := range result.Services {
			if err != nil {
				break
			}
			_, err = fmt.Fprintf(w, "  %s [%s] %s\n", describeService(snap, svc), svc.Type, svc.ID)
		}
	case resolver.Scene:
		_, err = fmt.Fprintf(w, "scene\n  %s %s\n", result.Scene.Name, result.Scene.ID)
	default:
		_, err = fmt.Fprintf(w, "not_found\n  %s\n", result.Query)
	}
	return err
}

func describeService(snap *home.Snapshot, svc home.Service) string {
	if room := snap.RoomName(svc); room != "" {
		return room + "/" + svc.Name
	}
	return svc.Name
}
