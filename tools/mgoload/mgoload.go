// Load a redirect index into MongoDB
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/dustin/go-wikiredirect/internal/logging"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// A source title has exactly one target, so sources are unique.
var sourceIndex = mgo.Index{
	Key:        []string{"source"},
	Unique:     true,
	DropDups:   true,
	Background: true,
}

type redirect struct {
	Source string `bson:"source"`
	Target string `bson:"target"`
}

// sink writes through its own copy of the session.
type sink struct {
	session *mgo.Session
	c       *mgo.Collection
}

func newSink(session *mgo.Session, dbname, collection string) *sink {
	s := session.Copy()
	return &sink{session: s, c: s.DB(dbname).C(collection)}
}

func (s *sink) Put(source, target string) error {
	_, err := s.c.Upsert(bson.M{"source": source},
		&redirect{Source: source, Target: target})
	return err
}

func (s *sink) Close() error {
	s.session.Close()
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	dburl := flag.String("dburl", "", "The dburl(s). I.e. localhost. (default from config)")
	dbname := flag.String("dbname", "", "The database name to use. (default from config)")
	collection := flag.String("collection", "", "The collection to store redirects in. (default from config)")
	proc := flag.Int("proc", 0, "How many writers to run. (default from config)")
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
		cfg.Mongo.URL = *dburl
	}
	if *dbname != "" {
		cfg.Mongo.Database = *dbname
	}
	if *collection != "" {
		cfg.Mongo.Collection = *collection
	}
	if *proc > 0 {
		cfg.Loader.Workers = *proc
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	idx, err := wikiredirect.MustLoadRedirects(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error loading redirects: %v", err)
	}

	session, err := mgo.Dial(cfg.Mongo.URL)
	if err != nil {
		log.Fatalf("Error connecting to mongo: %v", err)
	}
	defer session.Close()

	err = session.DB(cfg.Mongo.Database).C(cfg.Mongo.Collection).EnsureIndex(sourceIndex)
	if err != nil {
		log.Fatalf("Error creating source index: %v", err)
	}

	sinks := make([]loader.Sink, cfg.Loader.Workers)
	for i := range sinks {
		sinks[i] = newSink(session, cfg.Mongo.Database, cfg.Mongo.Collection)
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
