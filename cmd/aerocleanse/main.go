package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aerocleanse/etl/internal/common"
	"aerocleanse/etl/internal/config"
	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/db"
	"aerocleanse/etl/internal/jobs"
	"aerocleanse/etl/internal/logging"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// errDegraded marks a completed run that lost data under --strict
var errDegraded = errors.New("pipeline run degraded")

type rootOptions struct {
	configPath string
	stagingDir string
	archiveDir string
	strict     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logging.Close()

	switch {
	case err == nil:
	case errors.Is(err, errDegraded):
		os.Exit(2)
	default:
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "aerocleanse",
		Short:         "Maintenance-log ETL: staged CSV/JSON files into maintenance_logs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "aerocleanse.yaml", "Path to YAML config file (missing file uses defaults)")
	root.PersistentFlags().StringVar(&opts.stagingDir, "staging", "", "Staging directory (overrides config)")
	root.PersistentFlags().StringVar(&opts.archiveDir, "archive", "", "Archive directory (overrides config)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the extract, transform, load and archive pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), opts)
		},
	}
	runCmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with status 2 when the run is degraded")

	initDBCmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the maintenance_logs and pipeline_runs tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDatabase(opts)
		},
	}

	root.AddCommand(runCmd, initDBCmd)
	return root
}

// loadConfig applies file, environment, then flag settings and starts the logger
func loadConfig(opts rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.stagingDir != "" {
		cfg.Paths.StagingDir = opts.stagingDir
	}
	if opts.archiveDir != "" {
		cfg.Paths.ArchiveDir = opts.archiveDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.Logging.Level); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return nil, err
	}
	return cfg, nil
}

func runPipeline(ctx context.Context, opts rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		logging.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err.Error())
		return err
	}
	defer db.Close(gdb)

	var redisClient *redis.Client
	if cfg.Lock.Backend == "redis" {
		redisClient = common.NewRedisClient(cfg)
		defer redisClient.Close()
	}

	job, err := jobs.InitializeETLJob(cfg, gdb, redisClient)
	if err != nil {
		return err
	}

	summary, err := job.Run(ctx)
	if err != nil {
		if errors.Is(err, common.ErrRunLocked) {
			return err
		}
		logging.Error("Pipeline run failed", "error", err.Error())
		return err
	}

	if opts.strict && summary.Status == constants.RunStatusDegraded {
		return fmt.Errorf("%w: run %s", errDegraded, summary.RunID)
	}
	return nil
}

func initDatabase(opts rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		logging.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err.Error())
		return err
	}
	defer db.Close(gdb)

	if err := db.EnsureSchema(gdb); err != nil {
		logging.Error("Failed to create schema", "error", err.Error())
		return err
	}
	logging.Info("Database schema ready", "driver", cfg.Database.Driver)
	return nil
}
