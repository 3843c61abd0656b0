// Package config holds the settings shared by the wikiredirect tools.
//
// Values come from an optional YAML file and WIKIREDIRECT_* environment
// variables.  Priority: ENV > YAML > defaults (env-default tags).
// Command line flags are applied on top by each tool.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top level tool configuration.
type Config struct {
	Extract   ExtractConfig   `yaml:"extract"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Loader    LoaderConfig    `yaml:"loader"`
	Couchbase CouchbaseConfig `yaml:"couchbase"`
	CouchDB   CouchDBConfig   `yaml:"couchdb"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Elastic   ElasticConfig   `yaml:"elastic"`
	Redis     RedisConfig     `yaml:"redis"`
	Badger    BadgerConfig    `yaml:"badger"`
}

// ExtractConfig controls redirect extraction.
type ExtractConfig struct {
	OutputDir     string `yaml:"output_dir"     env:"WIKIREDIRECT_OUTPUT_DIR"     env-default:"target"`
	ProgressEvery int64  `yaml:"progress_every" env:"WIKIREDIRECT_PROGRESS_EVERY" env-default:"1000000"`
	SaveIndex     bool   `yaml:"save_index"     env:"WIKIREDIRECT_SAVE_INDEX"`
	// UnboundedContinuation keeps looking for a multi-line redirect
	// target past the end of its page, as older extractions did.
	UnboundedContinuation bool `yaml:"unbounded_continuation" env:"WIKIREDIRECT_UNBOUNDED_CONTINUATION"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WIKIREDIRECT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WIKIREDIRECT_LOG_FORMAT" env-default:"text"`
}

// MetricsConfig controls the prometheus textfile written after a run.
// An empty path disables it.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" env:"WIKIREDIRECT_METRICS_TEXTFILE"`
}

// LoaderConfig controls the store loaders.
type LoaderConfig struct {
	Workers     int   `yaml:"workers"      env:"WIKIREDIRECT_LOADER_WORKERS"      env-default:"8"`
	ReportEvery int64 `yaml:"report_every" env:"WIKIREDIRECT_LOADER_REPORT_EVERY" env-default:"100000"`
}

// CouchbaseConfig locates a Couchbase bucket.
type CouchbaseConfig struct {
	URL    string `yaml:"url"    env:"WIKIREDIRECT_COUCHBASE_URL"    env-default:"http://localhost:8091/"`
	Pool   string `yaml:"pool"   env:"WIKIREDIRECT_COUCHBASE_POOL"   env-default:"default"`
	Bucket string `yaml:"bucket" env:"WIKIREDIRECT_COUCHBASE_BUCKET" env-default:"default"`
}

// CouchDBConfig locates a CouchDB database.
type CouchDBConfig struct {
	URL string `yaml:"url" env:"WIKIREDIRECT_COUCHDB_URL" env-default:"http://localhost:5984/redirects"`
}

// MongoConfig locates a MongoDB collection.
type MongoConfig struct {
	URL        string `yaml:"url"        env:"WIKIREDIRECT_MONGO_URL"        env-default:"localhost"`
	Database   string `yaml:"database"   env:"WIKIREDIRECT_MONGO_DATABASE"   env-default:"wp"`
	Collection string `yaml:"collection" env:"WIKIREDIRECT_MONGO_COLLECTION" env-default:"redirects"`
}

// ElasticConfig locates an ElasticSearch index.
type ElasticConfig struct {
	URL       string `yaml:"url"        env:"WIKIREDIRECT_ELASTIC_URL"        env-default:"http://localhost:9200"`
	Index     string `yaml:"index"      env:"WIKIREDIRECT_ELASTIC_INDEX"      env-default:"wikiredirect"`
	BatchSize int    `yaml:"batch_size" env:"WIKIREDIRECT_ELASTIC_BATCH_SIZE" env-default:"1000"`
}

// RedisConfig locates a Redis server.
type RedisConfig struct {
	Addr      string `yaml:"addr"       env:"WIKIREDIRECT_REDIS_ADDR"       env-default:"localhost:6379"`
	Password  string `yaml:"password"   env:"WIKIREDIRECT_REDIS_PASSWORD"`
	DB        int    `yaml:"db"         env:"WIKIREDIRECT_REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"WIKIREDIRECT_REDIS_KEY_PREFIX" env-default:"redirect:"`
	BatchSize int    `yaml:"batch_size" env:"WIKIREDIRECT_REDIS_BATCH_SIZE" env-default:"1000"`
}

// BadgerConfig locates an embedded Badger database.
type BadgerConfig struct {
	Path string `yaml:"path" env:"WIKIREDIRECT_BADGER_PATH" env-default:"target/badger"`
}

// Load reads configuration from a YAML file and the environment.
// With an empty path only the environment and defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Extract.OutputDir == "" {
		errs = append(errs, errors.New("extract.output_dir is required"))
	}
	if c.Extract.ProgressEvery < 0 {
		errs = append(errs, fmt.Errorf("extract.progress_every must be >= 0, got %d", c.Extract.ProgressEvery))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Loader.Workers < 1 {
		errs = append(errs, fmt.Errorf("loader.workers must be >= 1, got %d", c.Loader.Workers))
	}
	if c.Elastic.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("elastic.batch_size must be >= 1, got %d", c.Elastic.BatchSize))
	}
	if c.Redis.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("redis.batch_size must be >= 1, got %d", c.Redis.BatchSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
