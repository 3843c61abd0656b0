package wikiredirect

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Line prefixes of the interesting parts of a page in the xml dump.
// The dump is written with fixed indentation, so a prefix match is
// enough to find them.
const (
	titleMarker    = "    <title>"
	titleEnd       = "</title>"
	redirectMarker = "    <redirect"
	textMarker     = "      <text xml"
	pageEndMarker  = "  </page>"
)

// maxLineSize is the longest line the extractor will accept (64 MB).
// Article text is stored one wikitext line per dump line.
const maxLineSize = 64 << 20

var redirectRE *regexp.Regexp

func init() {
	redirectRE = regexp.MustCompile(`(?i)#[ ]?[^ ]+[ ]?\[\[(.+?)\]\]`)
}

// A Redirect is a single source title to target title mapping.
type Redirect struct {
	Source string
	Target string
}

func (r Redirect) String() string {
	return r.Source + " -> " + r.Target
}

// State is the position of the Extractor within the current page.
type State int

const (
	// Seeking is outside any redirect page.
	Seeking State = iota
	// InRedirectArticle is inside a page carrying a redirect marker,
	// waiting for its text field.
	InRedirectArticle
	// AwaitingContinuation is inside a redirect page whose text field
	// did not contain the target on its first line.  Every following
	// line is tried until one matches.
	AwaitingContinuation
)

func (s State) String() string {
	switch s {
	case Seeking:
		return "Seeking"
	case InRedirectArticle:
		return "InRedirectArticle"
	case AwaitingContinuation:
		return "AwaitingContinuation"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats counts what an Extractor has seen.
type Stats struct {
	Lines     int64
	Accepted  int64
	Discarded int64
	Malformed int64
	Elapsed   time.Duration
}

// An Extractor finds redirects in a line oriented xml dump.
//
// Transitions, applied to each line in order:
//
//	title line         -> Seeking (and remember the title)
//	redirect line      -> InRedirectArticle
//	text line, or any line while AwaitingContinuation:
//	    target found   -> InRedirectArticle (emit or discard the pair)
//	    no target      -> AwaitingContinuation
//	page end line      -> Seeking, if BoundContinuation is set
//
// Without BoundContinuation an unfinished continuation also survives
// the next title: that page's redirect line goes straight to
// AwaitingContinuation, so every line of it is tried.
//
// An Extractor is not safe for concurrent use.
type Extractor struct {
	// BoundContinuation stops looking for a multi-line redirect
	// target at the end of the page.  Without it the search carries on
	// into the next redirect page.
	BoundContinuation bool
	// ProgressEvery is how many lines to read between progress
	// reports.  Zero disables them.
	ProgressEvery int64
	// Reporter receives progress, malformed records and the summary.
	Reporter Reporter

	state    State
	title    string
	hasTitle bool
	stats    Stats

	// continuing carries an unfinished continuation across a title
	// line when continuation is unbounded.
	continuing bool
}

// NewExtractor gets an Extractor with continuation bounded to the
// page and no reporting.
func NewExtractor() *Extractor {
	return &Extractor{
		BoundContinuation: true,
		ProgressEvery:     1000000,
		Reporter:          NopReporter{},
	}
}

// State returns the current state.
func (e *Extractor) State() State {
	return e.state
}

// Stats returns the counts so far.
func (e *Extractor) Stats() Stats {
	return e.stats
}

// Reset forgets the current page and zeroes the counts.
func (e *Extractor) Reset() {
	e.state = Seeking
	e.title = ""
	e.hasTitle = false
	e.continuing = false
	e.stats = Stats{}
}

// Step feeds a single line to the extractor.
//
// ok is true when the line completed a redirect that passed
// IsValidAlias.  A non-nil error means the candidate was dropped
// because its title line could not be cleaned; the extractor is
// still usable.
func (e *Extractor) Step(line string) (rd Redirect, ok bool, err error) {
	e.stats.Lines++

	if strings.HasPrefix(line, titleMarker) {
		e.title = line
		e.hasTitle = true
		if e.state == AwaitingContinuation && !e.BoundContinuation {
			e.continuing = true
		}
		e.state = Seeking
	}
	if strings.HasPrefix(line, redirectMarker) && e.state == Seeking {
		e.state = InRedirectArticle
		if e.continuing {
			e.state = AwaitingContinuation
			e.continuing = false
		}
	}

	switch e.state {
	case InRedirectArticle:
		if !strings.HasPrefix(line, textMarker) {
			return rd, false, nil
		}
	case AwaitingContinuation:
		if e.BoundContinuation && strings.HasPrefix(line, pageEndMarker) {
			e.state = Seeking
			return rd, false, nil
		}
	default:
		return rd, false, nil
	}

	target, found := MatchRedirect(line)
	if !found {
		e.state = AwaitingContinuation
		return rd, false, nil
	}
	e.state = InRedirectArticle

	if !e.hasTitle {
		e.stats.Malformed++
		return rd, false, fmt.Errorf("%w: redirect target %q before any title",
			ErrMalformedRecord, target)
	}
	source, err := CleanTitle(e.title)
	if err != nil {
		e.stats.Malformed++
		return rd, false, err
	}

	if !IsValidAlias(source, target) {
		e.stats.Discarded++
		return rd, false, nil
	}
	e.stats.Accepted++
	return Redirect{Source: source, Target: target}, true, nil
}

// Run reads lines from r until EOF, calling emit for each accepted
// redirect.
//
// Malformed records are handed to the Reporter and skipped.  Read
// errors and errors returned by emit stop the run.
func (e *Extractor) Run(r io.Reader, emit func(Redirect) error) (Stats, error) {
	e.Reset()
	rep := e.reporter()
	start := time.Now()

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	for s.Scan() {
		line := s.Text()
		rd, ok, err := e.Step(line)
		switch {
		case err != nil:
			rep.Malformed(e.title, line, err)
		case ok:
			if err := emit(rd); err != nil {
				return e.stats, fmt.Errorf("emitting %v: %w", rd, err)
			}
		}

		if e.ProgressEvery > 0 && e.stats.Lines%e.ProgressEvery == 0 {
			e.stats.Elapsed = time.Since(start)
			rep.Progress(e.stats)
		}
	}
	e.stats.Elapsed = time.Since(start)
	if err := s.Err(); err != nil {
		return e.stats, fmt.Errorf("reading dump: %w", err)
	}

	rep.Done(e.stats)
	return e.stats, nil
}

// Extract writes every accepted redirect in r to w as a tab separated
// line.
func (e *Extractor) Extract(r io.Reader, w io.Writer) (Stats, error) {
	bw := bufio.NewWriter(w)
	stats, err := e.Run(r, func(rd Redirect) error {
		return writeRecord(bw, rd.Source, rd.Target)
	})
	if err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("writing redirects: %w", err)
	}
	return stats, nil
}

func (e *Extractor) reporter() Reporter {
	if e.Reporter == nil {
		return NopReporter{}
	}
	return e.Reporter
}

// CleanTitle gets the page title out of a raw dump title line.
//
// A line without a closing tag is returned unchanged.
func CleanTitle(line string) (string, error) {
	end := strings.Index(line, titleEnd)
	if end == -1 {
		return line, nil
	}
	if end < len(titleMarker) {
		return "", fmt.Errorf("%w: title line %q", ErrMalformedRecord, line)
	}
	return line[len(titleMarker):end], nil
}

// MatchRedirect finds a redirect directive such as "#REDIRECT [[Foo]]"
// in line and returns its target.
func MatchRedirect(line string) (string, bool) {
	m := redirectRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
