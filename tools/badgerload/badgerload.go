// Load a redirect index into an embedded Badger database.
//
// Keys are source titles, values are target titles.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
)

// badgerLogger sends badger's own logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// open opens the database at path, or in memory if path is empty.
func open(path string, logger *slog.Logger) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// sink batches writes; Close flushes whatever is pending.
type sink struct {
	wb *badger.WriteBatch
}

func (s sink) Put(source, target string) error {
	return s.wb.Set([]byte(source), []byte(target))
}

func (s sink) Close() error {
	return s.wb.Flush()
}

// load writes idx into db using workers write batches.
func load(db *badger.DB, idx *wikiredirect.Redirects, workers int,
	opts loader.Options) (loader.Stats, error) {

	sinks := make([]loader.Sink, workers)
	for i := range sinks {
		sinks[i] = sink{db.NewWriteBatch()}
	}
	return loader.Run(idx, sinks, opts)
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	path := flag.String("db", "", "Badger directory (default from config)")
	numWorkers := flag.Int("numWorkers", 0, "Number of write batches (default from config)")
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
	if *path != "" {
		cfg.Badger.Path = *path
	}
	if *numWorkers > 0 {
		cfg.Loader.Workers = *numWorkers
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	db, err := open(cfg.Badger.Path, logger)
	if err != nil {
		log.Fatalf("Error opening badger: %v", err)
	}

	st, err := load(db, idx, cfg.Loader.Workers, loader.Options{
		ReportEvery: cfg.Loader.ReportEvery,
		Logger:      logger,
	})
	if cerr := db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}
	if st.Failed > 0 {
		os.Exit(1)
	}
}
