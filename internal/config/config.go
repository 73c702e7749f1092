package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"aerocleanse/etl/internal/constants"

	"gopkg.in/yaml.v3"
)

// Config holds all pipeline configuration.
type Config struct {
	// Environment name; "production" switches the logger to production settings
	AppEnv string `yaml:"app_env"`

	Paths    PathsConfig    `yaml:"paths"`
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Lock     LockConfig     `yaml:"lock"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PathsConfig locates the staging and archive directories.
type PathsConfig struct {
	StagingDir string `yaml:"staging_dir"`
	ArchiveDir string `yaml:"archive_dir"`
	// Destination for staged files when the load stage fails (quarantine policy)
	FailedDir string `yaml:"failed_dir"`
}

// DatabaseConfig selects the persistent store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres
	DSN    string `yaml:"dsn"`
}

// PipelineConfig tunes the run itself.
type PipelineConfig struct {
	InsertBatchSize int    `yaml:"insert_batch_size"`
	OnLoadFailure   string `yaml:"on_load_failure"` // quarantine, archive, keep
	DateCacheTTL    string `yaml:"date_cache_ttl"`
}

// LockConfig configures mutual exclusion between concurrent runs.
type LockConfig struct {
	Backend string      `yaml:"backend"` // file, redis, none
	File    string      `yaml:"file"`
	TTL     string      `yaml:"ttl"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis lock backend.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Empty disables the export
	TextfilePath string `yaml:"textfile_path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Supported values for enumerated settings
var (
	ValidDrivers         = []string{"sqlite", "postgres"}
	ValidLoadFailureMode = []string{constants.LoadFailureQuarantine, constants.LoadFailureArchive, constants.LoadFailureKeep}
	ValidLockBackends    = []string{"file", "redis", "none"}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		AppEnv: "development",
		Paths: PathsConfig{
			StagingDir: constants.DefaultStagingDir,
			ArchiveDir: constants.DefaultArchiveDir,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    constants.DefaultSQLitePath,
		},
		Pipeline: PipelineConfig{
			InsertBatchSize: constants.DefaultInsertBatchSize,
			OnLoadFailure:   constants.LoadFailureQuarantine,
			DateCacheTTL:    "10m",
		},
		Lock: LockConfig{
			Backend: "file",
			TTL:     "30m",
			Redis: RedisConfig{
				Host: "localhost",
				Port: "6379",
				Key:  constants.DefaultRedisLockKey,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.AppEnv = v
	}
	if v := os.Getenv("AEROCLEANSE_STAGING_DIR"); v != "" {
		c.Paths.StagingDir = v
	}
	if v := os.Getenv("AEROCLEANSE_ARCHIVE_DIR"); v != "" {
		c.Paths.ArchiveDir = v
	}
	if v := os.Getenv("AEROCLEANSE_FAILED_DIR"); v != "" {
		c.Paths.FailedDir = v
	}
	if v := os.Getenv("AEROCLEANSE_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("AEROCLEANSE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("AEROCLEANSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Lock.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.Lock.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Lock.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Lock.Redis.DB = db
		}
	}
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// FailedDirPath returns the quarantine directory, defaulting to a subfolder of the archive.
func (c *Config) FailedDirPath() string {
	if c.Paths.FailedDir != "" {
		return c.Paths.FailedDir
	}
	return filepath.Join(c.Paths.ArchiveDir, constants.DefaultFailedSubdir)
}

// LockFilePath returns the lock file location, defaulting to the staging directory's parent.
func (c *Config) LockFilePath() string {
	if c.Lock.File != "" {
		return c.Lock.File
	}
	return filepath.Join(filepath.Dir(filepath.Clean(c.Paths.StagingDir)), constants.DefaultLockFileName)
}

// GetLockTTL returns the lock TTL as a duration.
func (c *Config) GetLockTTL() time.Duration {
	d, err := time.ParseDuration(c.Lock.TTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// GetDateCacheTTL returns the date memo TTL as a duration.
func (c *Config) GetDateCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Pipeline.DateCacheTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// RedisAddr returns host:port for the redis lock backend.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Lock.Redis.Host, c.Lock.Redis.Port)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.StagingDir == "" || c.Paths.ArchiveDir == "" {
		return fmt.Errorf("staging_dir and archive_dir are required")
	}
	if filepath.Clean(c.Paths.StagingDir) == filepath.Clean(c.Paths.ArchiveDir) {
		return fmt.Errorf("staging_dir and archive_dir must differ: %s", c.Paths.StagingDir)
	}
	if filepath.Clean(c.Paths.StagingDir) == filepath.Clean(c.FailedDirPath()) {
		return fmt.Errorf("staging_dir and failed_dir must differ: %s", c.Paths.StagingDir)
	}
	if !contains(ValidDrivers, c.Database.Driver) {
		return fmt.Errorf("invalid database driver: %s (valid: %v)", c.Database.Driver, ValidDrivers)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Pipeline.InsertBatchSize <= 0 {
		return fmt.Errorf("insert_batch_size must be positive, got %d", c.Pipeline.InsertBatchSize)
	}
	if !contains(ValidLoadFailureMode, c.Pipeline.OnLoadFailure) {
		return fmt.Errorf("invalid on_load_failure: %s (valid: %v)", c.Pipeline.OnLoadFailure, ValidLoadFailureMode)
	}
	if !contains(ValidLockBackends, c.Lock.Backend) {
		return fmt.Errorf("invalid lock backend: %s (valid: %v)", c.Lock.Backend, ValidLockBackends)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
