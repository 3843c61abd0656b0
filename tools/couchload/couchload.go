// Load a redirect index into CouchDB
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-couch"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
	"github.com/dustin/httputil"
)

// Redirect is the document stored for each source title.
type Redirect struct {
	ID     string `json:"_id"`
	Rev    string `json:"_rev,omitempty"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

func escapeTitle(in string) string {
	return strings.Replace(strings.Replace(in, "/", "%2f", -1),
		"+", "%2b", -1)
}

type sink struct {
	db  *couch.Database
	log *slog.Logger
}

// resolveConflict replaces an existing document whose target differs.
func (s sink) resolveConflict(r *Redirect) error {
	var prev Redirect
	if err := s.db.Retrieve(r.ID, &prev); err != nil {
		return fmt.Errorf("retrieving existing %v: %w", r.ID, err)
	}
	if prev.Rev == "" {
		return fmt.Errorf("got no rev from %v", r.ID)
	}
	if prev.Target == r.Target {
		return nil
	}
	s.log.Info("replacing redirect", "source", r.ID,
		"old", prev.Target, "new", r.Target, "rev", prev.Rev)
	if _, err := s.db.EditWith(r, r.ID, prev.Rev); err != nil {
		return fmt.Errorf("updating %v: %w", r.ID, err)
	}
	return nil
}

func (s sink) Put(source, target string) error {
	r := Redirect{ID: escapeTitle(source), Type: "redirect", Target: target}
	_, _, err := s.db.Insert(&r)
	switch {
	case err == nil:
		return nil
	case httputil.IsHTTPStatus(err, 409):
		return s.resolveConflict(&r)
	}
	return err
}

func (s sink) Close() error {
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	dburl := flag.String("couchdb", "", "CouchDB database URL (default from config)")
	numWorkers := flag.Int("numWorkers", 0, "Number of store workers (default from config)")
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
	if *dburl != "" {
		cfg.CouchDB.URL = *dburl
	}
	if *numWorkers > 0 {
		cfg.Loader.Workers = *numWorkers
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	db, err := couch.Connect(cfg.CouchDB.URL)
	if err != nil {
		log.Fatalf("Error connecting to couchdb: %v", err)
	}

	sinks := make([]loader.Sink, cfg.Loader.Workers)
	for i := range sinks {
		sinks[i] = sink{db: &db, log: logger}
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
