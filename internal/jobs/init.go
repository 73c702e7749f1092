package jobs

import (
	"fmt"

	"aerocleanse/etl/internal/common"
	"aerocleanse/etl/internal/config"
	"aerocleanse/etl/internal/db/repositories"
	"aerocleanse/etl/internal/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitializeETLJob wires the maintenance ETL job and its collaborators from cfg.
// redisClient is only used by the redis lock backend and may be nil otherwise.
func InitializeETLJob(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*MaintenanceETLJob, error) {
	lock, err := NewRunLock(cfg, redisClient)
	if err != nil {
		return nil, err
	}

	// Batches repeat the same handful of date strings, so memoize parsing for the run
	ttl := cfg.GetDateCacheTTL()
	dates := common.NewDateNormalizer(common.NewCacheService(ttl, 2*ttl))

	job := NewMaintenanceETLJob(
		cfg,
		repositories.NewMaintenanceLogRepo(db, cfg.Pipeline.InsertBatchSize),
		repositories.NewPipelineRunRepo(db),
		lock,
		dates,
		metrics.NewMetricsRegistry(),
	)
	return job, nil
}

// NewRunLock builds the configured run lock backend
func NewRunLock(cfg *config.Config, redisClient *redis.Client) (common.RunLock, error) {
	switch cfg.Lock.Backend {
	case "", "file":
		return common.NewFileRunLock(cfg.LockFilePath(), "aerocleanse"), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis lock backend selected but no redis client configured")
		}
		return common.NewRedisRunLock(redisClient, cfg.Lock.Redis.Key, cfg.GetLockTTL()), nil
	case "none":
		return common.NoopRunLock{}, nil
	default:
		return nil, fmt.Errorf("unknown lock backend: %s", cfg.Lock.Backend)
	}
}
