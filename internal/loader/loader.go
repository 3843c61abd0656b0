// Package loader pushes a redirect index into an external store.
//
// Each store tool supplies one Sink per worker; Run fans the index out
// to them and logs progress the way the dump loaders always have.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikiredirect"
)

// A Sink stores redirects somewhere.  A Sink is used by a single
// goroutine.
type Sink interface {
	Put(source, target string) error
	Close() error
}

// Options tune Run.
type Options struct {
	// ReportEvery is how many redirects to send between progress
	// lines.  Zero disables them.
	ReportEvery int64
	Logger      *slog.Logger
}

// Stats describes a finished Run.
type Stats struct {
	Sent    int64
	Failed  int64
	Elapsed time.Duration
}

type work struct {
	source, target string
}

// Run sends every entry of r to one of sinks and closes them all.
//
// Failed puts are logged and counted but do not stop the run.  The
// returned error joins the errors from closing the sinks.
func Run(r *wikiredirect.Redirects, sinks []Sink, opts Options) (Stats, error) {
	if len(sinks) == 0 {
		return Stats{}, errors.New("loader: no sinks")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var failed atomic.Int64
	var wg sync.WaitGroup
	ch := make(chan work, 1000)
	closeErrs := make([]error, len(sinks))

	for i, s := range sinks {
		wg.Add(1)
		go func(i int, s Sink) {
			defer wg.Done()
			for w := range ch {
				if err := s.Put(w.source, w.target); err != nil {
					failed.Add(1)
					log.Error("storing redirect", "source", w.source,
						"target", w.target, "error", err)
				}
			}
			closeErrs[i] = s.Close()
		}(i, s)
	}

	var sent int64
	start := time.Now()
	prev := start
	r.Each(func(source, target string) bool {
		ch <- work{source, target}
		sent++
		if opts.ReportEvery > 0 && sent%opts.ReportEvery == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Info(fmt.Sprintf("Processed %s redirects total (%.2f/s)",
				humanize.Comma(sent), float64(opts.ReportEvery)/d.Seconds()))
			prev = now
		}
		return true
	})
	close(ch)
	wg.Wait()

	st := Stats{Sent: sent, Failed: failed.Load(), Elapsed: time.Since(start)}
	log.Info(fmt.Sprintf("Ended after %v: %s redirects, %s failed",
		st.Elapsed, humanize.Comma(st.Sent), humanize.Comma(st.Failed)))

	return st, errors.Join(closeErrs...)
}
