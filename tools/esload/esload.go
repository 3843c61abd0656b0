// Load a redirect index into ElasticSearch
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-elasticsearch"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
)

// sink sends updates through its own bulk loader, sending a batch
// every batchSize documents.
type sink struct {
	update    func(*elasticsearch.UpdateInstruction)
	send      func()
	quit      func()
	index     string
	batchSize int
	counter   int
}

func newSink(u, index string, batchSize int) *sink {
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()
	return &sink{
		update:    func(ui *elasticsearch.UpdateInstruction) { bulkLoader.Update(ui) },
		send:      func() { bulkLoader.SendBatch() },
		quit:      func() { bulkLoader.Quit() },
		index:     index,
		batchSize: batchSize,
	}
}

func (s *sink) Put(source, target string) error {
	s.update(&elasticsearch.UpdateInstruction{
		Id:    source,
		Index: s.index,
		Type:  "redirect",
		Body: map[string]interface{}{
			"source": source,
			"target": target,
		},
	})
	s.counter++
	if s.counter >= s.batchSize {
		s.send()
		s.counter = 0
	}
	return nil
}

func (s *sink) Close() error {
	s.quit()
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	esurl := flag.String("es", "", "ElasticSearch URL (default from config)")
	numWorkers := flag.Int("numWorkers", 0, "Number of bulk loaders (default from config)")
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
	if *esurl != "" {
		cfg.Elastic.URL = *esurl
	}
	if *numWorkers > 0 {
		cfg.Loader.Workers = *numWorkers
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	sinks := make([]loader.Sink, cfg.Loader.Workers)
	for i := range sinks {
		sinks[i] = newSink(cfg.Elastic.URL, cfg.Elastic.Index, cfg.Elastic.BatchSize)
	}

	if _, err := loader.Run(idx, sinks, loader.Options{
		ReportEvery: cfg.Loader.ReportEvery,
		Logger:      logger,
	}); err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}
}
