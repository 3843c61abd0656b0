// Dry run of redirect extraction.
//
// Reads a dump the way extract does but writes no redirects, only the
// counts.  Malformed records are gobbed to errors.gob for later
// inspection.
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/logging"
)

// MalformedRecord is a redirect candidate the extractor had to drop.
type MalformedRecord struct {
	Title string
	Line  string
	Error string
}

// spillReporter logs like the usual reporter and also hands malformed
// records to errorHandler.
type spillReporter struct {
	wikiredirect.Reporter
	ch chan<- MalformedRecord
}

func (r spillReporter) Malformed(title, line string, err error) {
	r.Reporter.Malformed(title, line, err)
	r.ch <- MalformedRecord{Title: title, Line: line, Error: err.Error()}
}

func errorHandler(w io.Writer, ch <-chan MalformedRecord, errwg *sync.WaitGroup) {
	defer errwg.Done()
	g := gob.NewEncoder(w)
	for rec := range ch {
		if err := g.Encode(rec); err != nil {
			log.Fatalf("Error gobbing record: %v\n%#v", err, rec)
		}
	}
}

// traverse runs the extractor over r with no output, spilling
// malformed records to errw.
func traverse(r io.Reader, errw io.Writer, unbounded bool,
	logger *slog.Logger) (wikiredirect.Stats, error) {

	var errwg sync.WaitGroup
	cherr := make(chan MalformedRecord, 10)
	errwg.Add(1)
	go errorHandler(errw, cherr, &errwg)

	e := wikiredirect.NewExtractor()
	e.BoundContinuation = !unbounded
	e.Reporter = spillReporter{wikiredirect.NewLogReporter(logger), cherr}

	st, err := e.Run(r, func(wikiredirect.Redirect) error { return nil })
	close(cherr)
	errwg.Wait()
	return st, err
}

func main() {
	unbounded := flag.Bool("unbounded", false,
		"keep looking for multi-line redirect targets past the end of the page")
	errFile := flag.String("errors", "errors.gob", "where to gob malformed records")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [opts] pages-articles.xml[.bz2]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logging.Setup(*level, "text")

	dump, err := wikiredirect.OpenDump(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer dump.Close()

	f, err := os.Create(*errFile)
	if err != nil {
		log.Fatalf("Error creating error file: %v", err)
	}
	defer f.Close()

	if _, err := traverse(dump, f, *unbounded, logger); err != nil {
		log.Fatalf("Error traversing dump: %v", err)
	}
}
