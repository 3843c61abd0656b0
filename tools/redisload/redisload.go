// Load a redirect index into Redis.
//
// Each redirect is stored as a plain string key, <prefix><source>,
// holding the target title.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
	"github.com/redis/go-redis/v9"
)

// sink pipelines SETs, executing every batchSize commands.
type sink struct {
	ctx       context.Context
	pipe      redis.Pipeliner
	prefix    string
	batchSize int
	pending   int
}

func newSink(ctx context.Context, rdb *redis.Client, cfg config.RedisConfig) *sink {
	return &sink{
		ctx:       ctx,
		pipe:      rdb.Pipeline(),
		prefix:    cfg.KeyPrefix,
		batchSize: cfg.BatchSize,
	}
}

func (s *sink) Put(source, target string) error {
	s.pipe.Set(s.ctx, s.prefix+source, target, 0)
	s.pending++
	if s.pending >= s.batchSize {
		return s.flush()
	}
	return nil
}

func (s *sink) flush() error {
	if s.pending == 0 {
		return nil
	}
	s.pending = 0
	if _, err := s.pipe.Exec(s.ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func (s *sink) Close() error {
	return s.flush()
}

func connect(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("redis", "", "Redis address (default from config)")
	numWorkers := flag.Int("numWorkers", 0, "Number of pipelines (default from config)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [opts] wikipedia_redirect.{txt,snap}\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *addr != "" {
		cfg.Redis.Addr = *addr
	}
	if *numWorkers > 0 {
		cfg.Loader.Workers = *numWorkers
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	rdb, err := connect(cfg.Redis)
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	sinks := make([]loader.Sink, cfg.Loader.Workers)
	for i := range sinks {
		sinks[i] = newSink(ctx, rdb, cfg.Redis)
	}

	st, err := loader.Run(idx, sinks, loader.Options{
		ReportEvery: cfg.Loader.ReportEvery,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}
	if st.Failed > 0 {
		os.Exit(1)
	}
}
