package wikiredirect

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// A Reporter is told how an extraction is going.
type Reporter interface {
	// Progress is called periodically during a run.
	Progress(s Stats)
	// Malformed is called for each candidate dropped because its
	// title could not be cleaned.
	Malformed(title, line string, err error)
	// Done is called once at the end of a successful run.
	Done(s Stats)
}

// NopReporter ignores everything.
type NopReporter struct{}

func (NopReporter) Progress(Stats)                  {}
func (NopReporter) Malformed(string, string, error) {}
func (NopReporter) Done(Stats)                      {}

type logReporter struct {
	log *slog.Logger
}

// NewLogReporter gets a Reporter that logs to l.
func NewLogReporter(l *slog.Logger) Reporter {
	if l == nil {
		l = slog.Default()
	}
	return logReporter{l}
}

func (r logReporter) Progress(s Stats) {
	r.log.Info("extracting",
		"lines", humanize.Comma(s.Lines),
		"redirects", humanize.Comma(s.Accepted),
		"lines_per_sec", linesPerSec(s))
}

func (r logReporter) Malformed(title, line string, err error) {
	r.log.Error("cannot extract redirect",
		"title", title, "text", line, "error", err)
}

func (r logReporter) Done(s Stats) {
	r.log.Info("redirect extraction done",
		"extracted", humanize.Comma(s.Accepted),
		"discarded", humanize.Comma(s.Discarded),
		"malformed", humanize.Comma(s.Malformed),
		"lines", humanize.Comma(s.Lines),
		"elapsed", s.Elapsed.Round(time.Millisecond).String())
}

func linesPerSec(s Stats) string {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return "n/a"
	}
	return humanize.CommafWithDigits(float64(s.Lines)/secs, 2)
}
