// Extract redirects from a wikipedia xml dump.
//
// Usage:
//
//	extract [opts] enwiki-20111007-pages-articles.xml[.bz2]
//
// The redirects are written as tab separated text to
// <output dir>/<dump prefix>-redirect.txt.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/config"
	"github.com/dustin/go-wikiredirect/internal/logging"
	"github.com/dustin/go-wikiredirect/internal/metrics"
)

type options struct {
	configPath  string
	outputDir   string
	saveIndex   bool
	unbounded   bool
	metricsFile string
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "ERROR: Please specify the path to the wikipedia article xml file as the argument.")
	fmt.Fprintln(w, "Tips: enclose the path with double quotes if a space exists in the path.")
}

// run extracts the redirects of the single dump named in args.
//
// Argument problems are reported on stderr and are not errors.
func run(opts options, args []string, stderr io.Writer) error {
	if len(args) != 1 {
		usage(stderr)
		return nil
	}
	input := args[0]
	if st, err := os.Stat(input); err != nil || st.IsDir() {
		abs, _ := filepath.Abs(input)
		fmt.Fprintf(stderr, "ERROR: File not found at %s\n", abs)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.Extract.OutputDir = opts.outputDir
	}
	if opts.saveIndex {
		cfg.Extract.SaveIndex = true
	}
	if opts.unbounded {
		cfg.Extract.UnboundedContinuation = true
	}
	if opts.metricsFile != "" {
		cfg.Metrics.TextfilePath = opts.metricsFile
	}

	logger := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return extract(cfg, input, logger)
}

func extract(cfg *config.Config, input string, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.Extract.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(cfg.Extract.OutputDir, wikiredirect.OutputName(input))

	dump, err := wikiredirect.OpenDump(input)
	if err != nil {
		return err
	}
	defer dump.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var rep wikiredirect.Reporter = wikiredirect.NewLogReporter(logger)
	var m *metrics.Metrics
	if cfg.Metrics.TextfilePath != "" {
		m = metrics.New()
		rep = m.Reporter(rep)
	}

	e := wikiredirect.NewExtractor()
	e.BoundContinuation = !cfg.Extract.UnboundedContinuation
	e.ProgressEvery = cfg.Extract.ProgressEvery
	e.Reporter = rep

	if _, err := e.Extract(dump, out); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %v: %w", outPath, err)
	}
	abs, _ := filepath.Abs(outPath)
	logger.Info("saved output", "path", abs)

	if m != nil {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if cfg.Extract.SaveIndex {
		idx, err := wikiredirect.LoadRedirects(outPath)
		if err != nil {
			return err
		}
		if err := wikiredirect.Save(cfg.Extract.OutputDir, idx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&opts.outputDir, "o", "", "output directory (default from config: target)")
	flag.BoolVar(&opts.saveIndex, "save-index", false,
		"also save the redirects as "+wikiredirect.TextFileName+" and "+wikiredirect.SnapshotFileName)
	flag.BoolVar(&opts.unbounded, "unbounded", false,
		"keep looking for multi-line redirect targets past the end of the page")
	flag.StringVar(&opts.metricsFile, "metrics", "", "write prometheus metrics to this textfile")
	flag.Parse()

	if err := run(opts, flag.Args(), os.Stderr); err != nil {
		if errors.Is(err, wikiredirect.ErrMissingInput) {
			log.Fatalf("Error opening dump: %v", err)
		}
		log.Fatalf("Error extracting redirects: %v", err)
	}
}
