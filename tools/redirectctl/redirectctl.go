// Query and convert saved redirect indexes.
//
//	redirectctl lookup wikipedia_redirect.snap "AccessibleComputing"
//	redirectctl sources wikipedia_redirect.snap "Computer accessibility"
//	redirectctl convert wikipedia_redirect.txt wikipedia_redirect.snap
//	redirectctl count wikipedia_redirect.snap
//	redirectctl hypernyms wikipedia_hypernym.txt "Dog"
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/logging"
	"github.com/spf13/cobra"
)

var logLevel string

const longHelp = `Query and convert wikipedia redirect indexes.

Exits with status 255 when an input file is missing, 1 on other errors.`

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "redirectctl",
		Short:         "Query and convert wikipedia redirect indexes",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		&cobra.Command{
			Use:   "lookup INDEX TITLE...",
			Short: "Print the redirect target of each title",
			Args:  cobra.MinimumNArgs(2),
			RunE:  runLookup,
		},
		&cobra.Command{
			Use:   "sources INDEX TARGET",
			Short: "Print every title redirecting to TARGET",
			Args:  cobra.ExactArgs(2),
			RunE:  runSources,
		},
		&cobra.Command{
			Use:   "convert IN OUT",
			Short: "Rewrite an index, choosing the format by suffix (.snap or text)",
			Args:  cobra.ExactArgs(2),
			RunE:  runConvert,
		},
		&cobra.Command{
			Use:   "count INDEX",
			Short: "Print the number of redirects in an index",
			Args:  cobra.ExactArgs(1),
			RunE:  runCount,
		},
		&cobra.Command{
			Use:   "hypernyms FILE TERM...",
			Short: "Print the hypernyms of each term",
			Args:  cobra.MinimumNArgs(2),
			RunE:  runHypernyms,
		},
	)
	return root
}

func runLookup(cmd *cobra.Command, args []string) error {
	idx, err := wikiredirect.LoadRedirects(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	missing := 0
	for _, title := range args[1:] {
		target, ok := idx.Get(title)
		if !ok {
			missing++
			fmt.Fprintf(out, "%s\t(no redirect)\n", title)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", title, target)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d titles have no redirect", missing, len(args)-1)
	}
	return nil
}

func runSources(cmd *cobra.Command, args []string) error {
	idx, err := wikiredirect.LoadRedirects(args[0])
	if err != nil {
		return err
	}
	for _, s := range idx.SourcesByTarget(args[1]) {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	idx, err := wikiredirect.LoadRedirects(args[0])
	if err != nil {
		return err
	}
	if err := wikiredirect.SaveRedirects(args[1], idx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s redirects to %s\n",
		humanize.Comma(int64(idx.Len())), args[1])
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	idx, err := wikiredirect.LoadRedirects(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), humanize.Comma(int64(idx.Len())))
	return nil
}

func runHypernyms(cmd *cobra.Command, args []string) error {
	h, err := wikiredirect.LoadHypernyms(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, term := range args[1:] {
		values, _ := h.Get(term)
		for _, v := range values {
			fmt.Fprintf(out, "%s\t%s\n", term, v)
		}
	}
	return nil
}

// exitCode maps a command error to the process exit status.  A
// missing index or hypernym file exits like the other tools do.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, wikiredirect.ErrMissingInput):
		return wikiredirect.ExitMissingInput
	}
	return 1
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
