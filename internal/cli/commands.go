package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marketfetch/internal/config"
	"marketfetch/internal/coordinator"
	"marketfetch/internal/document"
	"marketfetch/internal/fetcher"
	"marketfetch/internal/store"
	"marketfetch/internal/store/sqlite"
	"marketfetch/internal/yahoo"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// ErrNoData is returned by single-fetch commands when the provider had nothing to return.
var ErrNoData = errors.New("no data")

// symbolArg accepts exactly one non-blank symbol argument.
var symbolArg = cobra.MatchAll(cobra.ExactArgs(1), func(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(args[0]) == "" {
		return errors.New("symbol must not be empty")
	}
	return nil
})

// batchTimeout bounds a whole batch run
const batchTimeout = 30 * time.Second

type app struct {
	cfg *config.Config
	out io.Writer
	// transport overrides the HTTP transport; tests set it
	transport fetcher.Transport
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{out: os.Stdout})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marketfetch",
		Short: "marketfetch - market data from Yahoo Finance",
		Long: `marketfetch retrieves option chains and price charts from Yahoo Finance.
Without a subcommand it runs the batch configured through OPTION_SYMBOLS and CHART_SYMBOLS.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd.Context())
		},
	}

	rootCmd.AddCommand(a.newOptionsCmd())
	rootCmd.AddCommand(a.newChartCmd())
	rootCmd.AddCommand(a.newBatchCmd())
	rootCmd.AddCommand(a.newSnapshotsCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		a.cfg = cfg
	}
	a.out = cmd.OutOrStdout()

	level, _ := config.ParseLogLevel(a.cfg.LogLevel)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

func (a *app) newFetcher(structured bool) *fetcher.Fetcher {
	p := yahoo.New(a.cfg.YahooBaseURL)
	if structured {
		yahoo.RegisterMappers(p)
	}

	transport := a.transport
	if transport == nil {
		transport = fetcher.NewHTTPTransport(fetcher.NewHTTPClient(a.cfg.RequestTimeout, a.cfg.UserAgent))
	}
	return fetcher.New(p, transport)
}

func (a *app) newOptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options [SYMBOL]",
		Short: "Fetch the option chain for a symbol",
		Long: `Fetch the option chain for a symbol, optionally for one expiration date.
Example: marketfetch options AAPL --expiration=2024-01-19`,
		Args: symbolArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, _ := cmd.Flags().GetString("expiration")
			structured, _ := cmd.Flags().GetBool("structured")

			req := yahoo.OptionRequest{Symbol: args[0]}
			if exp != "" {
				d, err := fetcher.ParseDate(exp)
				if err != nil {
					return err
				}
				req.Expiration = d
			}
			return a.runOptions(cmd.Context(), req, structured)
		},
	}

	cmd.Flags().String("expiration", "", "Expiration date in YYYY-MM-DD format (nearest if not provided)")
	cmd.Flags().Bool("structured", false, "Decode into contracts instead of printing raw JSON")

	return cmd
}

func (a *app) runOptions(ctx context.Context, req yahoo.OptionRequest, structured bool) error {
	f := a.newFetcher(structured)

	if structured {
		chain, ok := fetcher.Fetch[yahoo.OptionChain](ctx, f, req)
		if !ok {
			return fmt.Errorf("%s: %w", req.Key(), ErrNoData)
		}
		printOptionChain(a.out, chain)
		return nil
	}

	doc, ok := fetcher.FetchDocument(ctx, f, req)
	if !ok {
		return fmt.Errorf("%s: %w", req.Key(), ErrNoData)
	}
	printDocument(a.out, doc)
	return nil
}

func (a *app) newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [SYMBOL]",
		Short: "Fetch the price chart for a symbol",
		Long: `Fetch OHLCV history for a symbol.
Example: marketfetch chart MSFT --range=5d --interval=1h`,
		Args: symbolArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, _ := cmd.Flags().GetString("range")
			interval, _ := cmd.Flags().GetString("interval")
			structured, _ := cmd.Flags().GetBool("structured")

			req := yahoo.ChartRequest{Symbol: args[0], Range: rng, Interval: interval}
			return a.runChart(cmd.Context(), req, structured)
		},
	}

	cmd.Flags().String("range", "", "History range, e.g. 1d, 5d, 1mo, 1y (provider default if not provided)")
	cmd.Flags().String("interval", "", "Sample interval, e.g. 1m, 1h, 1d (provider default if not provided)")
	cmd.Flags().Bool("structured", false, "Decode into bars instead of printing raw JSON")

	return cmd
}

func (a *app) runChart(ctx context.Context, req yahoo.ChartRequest, structured bool) error {
	f := a.newFetcher(structured)

	if structured {
		chart, ok := fetcher.Fetch[yahoo.Chart](ctx, f, req)
		if !ok {
			return fmt.Errorf("%s: %w", req.Key(), ErrNoData)
		}
		printChart(a.out, chart)
		return nil
	}

	doc, ok := fetcher.FetchDocument(ctx, f, req)
	if !ok {
		return fmt.Errorf("%s: %w", req.Key(), ErrNoData)
	}
	printDocument(a.out, doc)
	return nil
}

func (a *app) newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Fetch every configured symbol concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd.Context())
		},
	}
}

// batchTasks creates tasks dynamically from configuration
func (a *app) batchTasks(f *fetcher.Fetcher) []fetcher.Task {
	var tasks []fetcher.Task
	for _, symbol := range a.cfg.OptionSymbols {
		tasks = append(tasks, fetcher.NewTask(f, yahoo.OptionRequest{Symbol: symbol}))
	}
	for _, symbol := range a.cfg.ChartSymbols {
		tasks = append(tasks, fetcher.NewTask(f, yahoo.ChartRequest{
			Symbol:   symbol,
			Range:    a.cfg.ChartRange,
			Interval: a.cfg.ChartInterval,
		}))
	}
	return tasks
}

func (a *app) runBatch(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f := a.newFetcher(false)
	tasks := a.batchTasks(f)

	var st store.Store = &store.NopStore{}
	if a.cfg.StorePath != "" {
		s, err := sqlite.New(a.cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		st = s
	}
	defer st.Close()

	coord := coordinator.New(tasks,
		coordinator.WithMaxConcurrency(a.cfg.MaxConcurrency),
		coordinator.WithStore(st),
		coordinator.WithOutput(a.out),
	)

	// Add timeout to prevent hanging indefinitely
	fetchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	printHeader(a.out, "Fetching market data from Yahoo Finance...")
	if _, err := coord.Run(fetchCtx); err != nil {
		return err
	}
	printHeader(a.out, "All fetches completed!")
	return nil
}

func (a *app) newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots [KEY]",
		Short: "List the payloads stored for a task key",
		Long: `List the payloads a batch run stored under a task key, oldest first.
Example: marketfetch snapshots fetcher:yahoo:options:AAPL --payload`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withPayload, _ := cmd.Flags().GetBool("payload")
			return a.runSnapshots(cmd.Context(), args[0], withPayload)
		},
	}

	cmd.Flags().Bool("payload", false, "Print each stored payload")

	return cmd
}

func (a *app) runSnapshots(ctx context.Context, key string, withPayload bool) error {
	if a.cfg.StorePath == "" {
		return errors.New("no store configured: set MARKETFETCH_STORE_PATH")
	}

	st, err := sqlite.New(a.cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	snaps, err := st.ListSnapshots(ctx, key)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		return fmt.Errorf("%s: %w", key, ErrNoData)
	}

	printHeader(a.out, fmt.Sprintf("%s (%d snapshots)", key, len(snaps)))
	for _, snap := range snaps {
		fmt.Fprintf(a.out, "%s %s %d bytes\n",
			labelStyle.Render("fetched:"), snap.FetchedAt.Format(time.RFC3339), len(snap.Payload))
		if withPayload {
			printDocument(a.out, document.ParseString(snap.Payload))
		}
	}
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "marketfetch %s\n", Version)
		},
	}
}
