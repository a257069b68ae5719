package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/calendar"
	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/feed"
	"github.com/pfrederiksen/ytu-events-rss/internal/logger"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
	"github.com/pfrederiksen/ytu-events-rss/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// DefaultOutput is the feed file written when --output is not given.
const DefaultOutput = "ytu_etkinlikler.xml"

// Overridden in tests.
var (
	clock      = time.Now
	retryDelay = scraper.RetryDelay
)

type options struct {
	output   string
	url      string
	textFile string
	htmlFile string
	patterns string
	ics      string
	format   string
	sample   int
	logLevel string
	verbose  bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ytu-events-rss",
		Short: "Generate an RSS feed from the YTU event calendar",
		Long: `A CLI tool that turns the Yıldız Technical University event calendar into an RSS feed.
The page is scraped with a cascade of extraction strategies; the first one that finds
events wins. Events are normalized, deduplicated by title and time, and written as RSS 2.0.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVarP(&opts.output, "output", "o", DefaultOutput, "Path of the RSS feed to write")
	cmd.Flags().StringVar(&opts.url, "url", "", "Events page URL (default from the pattern tables)")
	cmd.Flags().StringVar(&opts.textFile, "text-file", "", "Read pasted page text from a file, or '-' for stdin, instead of fetching")
	cmd.Flags().StringVar(&opts.htmlFile, "html-file", "", "Read a saved HTML page instead of fetching")
	cmd.Flags().StringVar(&opts.patterns, "patterns", "", "YAML file overriding the built-in pattern tables")
	cmd.Flags().StringVar(&opts.ics, "ics", "", "Also write an iCalendar file to this path")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Summary format: text or json")
	cmd.Flags().IntVar(&opts.sample, "sample", 5, "Number of events to print in the summary")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Minimum log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging (same as --log-level debug, plus metrics)")

	cmd.MarkFlagsMutuallyExclusive("text-file", "html-file")

	cmd.AddCommand(newVerifyCmd())

	return cmd
}

// runGenerate is the main command logic
func runGenerate(cmd *cobra.Command, opts *options) error {
	// Validate format
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}
	if opts.sample < 0 {
		return fmt.Errorf("--sample must not be negative")
	}

	if err := setupLogging(cmd.ErrOrStderr(), opts.logLevel, opts.verbose); err != nil {
		return err
	}

	set := patterns.Default()
	if opts.patterns != "" {
		var err error
		if set, err = patterns.Load(opts.patterns); err != nil {
			return fmt.Errorf("loading patterns: %w", err)
		}
	}

	scraperOpts := []scraper.Option{
		scraper.WithClock(clock),
		scraper.WithRetry(scraper.MaxRetries, retryDelay),
	}
	if opts.url != "" {
		scraperOpts = append(scraperOpts, scraper.WithURL(opts.url))
	}
	sc := scraper.New(set, scraperOpts...)

	records, source, err := collect(cmd.Context(), cmd.InOrStdin(), sc, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No events found. Cannot generate RSS feed.")
		return nil
	}

	w := feed.NewWriter(feed.DefaultChannel(set), set.Site.GUIDPrefix, clock)
	if err := w.WriteFile(opts.output, records); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	logger.Info("feed written", logger.Fields{"path": opts.output, "items": len(records)})

	result := &OutputResult{
		GeneratedAt: clock().In(event.Istanbul),
		Source:      source,
		EventCount:  len(records),
		Feed:        opts.output,
		Events:      sample(records, opts.sample),
	}

	if opts.ics != "" {
		ics := calendar.GenerateICS(records, set.Site.GUIDPrefix, clock())
		if err := os.WriteFile(opts.ics, []byte(ics), 0644); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		result.Calendar = opts.ics
		result.CalendarEvents = calendar.Count(records)
	}

	if err := WriteOutput(out, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.verbose {
		writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}

// collect produces the deduplicated records from the configured input. A
// failed fetch is not an error: it is logged and reported as no events.
func collect(ctx context.Context, stdin io.Reader, sc *scraper.Scraper, opts *options) ([]event.Record, string, error) {
	switch {
	case opts.textFile != "":
		data, err := readInput(stdin, opts.textFile)
		if err != nil {
			return nil, "", fmt.Errorf("reading text: %w", err)
		}
		return sc.ParseEvents(scraper.NewTextSource(string(data))), opts.textFile, nil

	case opts.htmlFile != "":
		f, err := os.Open(opts.htmlFile)
		if err != nil {
			return nil, "", fmt.Errorf("reading HTML: %w", err)
		}
		defer f.Close()
		src, err := scraper.NewHTMLSource(f)
		if err != nil {
			return nil, "", err
		}
		return sc.ParseEvents(src), opts.htmlFile, nil

	default:
		logger.Info("fetching events page", logger.Fields{"url": sc.URL()})
		records, err := sc.FetchEvents(ctx)
		if err != nil {
			logger.Error("fetching events page failed", logger.Fields{"url": sc.URL()}, err)
			return nil, sc.URL(), nil
		}
		return records, sc.URL(), nil
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func setupLogging(w io.Writer, name string, verbose bool) error {
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}
	if verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, w))
	return nil
}

func writeMetrics(w io.Writer) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(logger.GetMetricsSnapshot()) // nolint:errcheck
}

func sample(records []event.Record, n int) []event.Record {
	if n > len(records) {
		n = len(records)
	}
	return records[:n]
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
