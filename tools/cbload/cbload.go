// Load a redirect index into CouchBase
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchbase/go-couchbase"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
)

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage:\n  %s [opts] wikipedia_redirect.{txt,snap}\n",
		os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

// Redirect is the document stored under the source title.
type Redirect struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

type sink struct {
	b *couchbase.Bucket
}

func (s sink) Put(source, target string) error {
	return s.b.Set(source, 0, Redirect{Type: "redirect", Target: target})
}

func (s sink) Close() error {
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	couchbaseServer := flag.String("couchbase", "", "Couchbase URL (default from config)")
	couchbaseBucket := flag.String("bucket", "", "Couchbase bucket (default from config)")
	numWorkers := flag.Int("numWorkers", 0, "Number of store workers (default from config)")
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *couchbaseServer != "" {
		cfg.Couchbase.URL = *couchbaseServer
	}
	if *couchbaseBucket != "" {
		cfg.Couchbase.Bucket = *couchbaseBucket
	}
	if *numWorkers > 0 {
		cfg.Loader.Workers = *numWorkers
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	db, err := couchbase.GetBucket(cfg.Couchbase.URL,
		cfg.Couchbase.Pool, cfg.Couchbase.Bucket)
	if err != nil {
		log.Fatalf("Error connecting to couchbase: %v", err)
	}
	defer db.Close()

	sinks := make([]loader.Sink, cfg.Loader.Workers)
	for i := range sinks {
		sinks[i] = sink{db}
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
