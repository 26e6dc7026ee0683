package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/profile"
	"github.com/sarchlab/bpsim/report"
	"github.com/sarchlab/bpsim/trace"
)

const progressInterval = 1 << 20

// flag names
const (
	flagPredictorName   = "predictor"
	flagVerboseName     = "verbose"
	flagConfigName      = "config"
	flagBudgetName      = "budget-kib"
	flagFormatName      = "format"
	flagXLSXName        = "xlsx"
	flagMetricsFileName = "metrics-file"
	flagProfileName     = "profile"
	flagProgressName    = "progress"
	flagDebugName       = "debug"
	flagCPUProfileName  = "cpuprofile"
	flagMemProfileName  = "memprofile"
)

type options struct {
	scheme      config.Scheme
	verbose     bool
	configPath  string
	budgetKiB   float64
	format      string
	xlsxPath    string
	metricsPath string
	profileTop  int
	progress    bool
	debug       bool
	cpuProfile  string
	memProfile  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bpsim [flags] [trace-file|-]",
		Short: "bpsim",
		Long: `bpsim simulates a conditional branch predictor over a trace of
"<hex pc> <outcome>" lines and reports its misprediction rate.

Predictor schemes:
  static
  gshare:<history bits>
  tournament:<ghistory>:<lhistory>:<index>
  perceptron:<history_size>:<num_perceptrons>:<theta>   (alias custom:)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(cmd.ErrOrStderr(), opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd, opts, path)
		},
	}

	flags := cmd.Flags()
	flags.VarP(&opts.scheme, flagPredictorName, "p", "predictor scheme, see above")
	flags.BoolVarP(&opts.verbose, flagVerboseName, "v", false, "print the prediction of every branch")
	flags.StringVar(&opts.configPath, flagConfigName, "", "JSON or YAML run configuration")
	flags.Float64Var(&opts.budgetKiB, flagBudgetName, 0, "perceptron storage budget in KiB, used when only the history size is given")
	flags.StringVar(&opts.format, flagFormatName, report.FormatText, "report format: text, json or yaml")
	flags.StringVar(&opts.xlsxPath, flagXLSXName, "", "also write the report to this Excel workbook")
	flags.StringVar(&opts.metricsPath, flagMetricsFileName, "", "also write Prometheus metrics to this file")
	flags.IntVar(&opts.profileTop, flagProfileName, 0, "report the N branches mispredicted most often")
	flags.BoolVar(&opts.progress, flagProgressName, false, "show progress on a terminal")
	flags.BoolVar(&opts.debug, flagDebugName, false, "enable debug logging")
	flags.StringVar(&opts.cpuProfile, flagCPUProfileName, "", "write a CPU profile of the run to this file")
	flags.StringVar(&opts.memProfile, flagMemProfileName, "", "write a heap profile after the run to this file")

	return cmd
}

func initLogging(w io.Writer, debug bool) {
	var logOpts slog.HandlerOptions
	if debug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &logOpts)))
}

// loadConfig builds the run configuration from the config file, if any, and
// the flags given on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		slog.Info("config loaded", slog.String("path", opts.configPath))
	}

	flags := cmd.Flags()
	if flags.Changed(flagPredictorName) {
		cfg.Predictor = opts.scheme.String()
	}
	if flags.Changed(flagVerboseName) {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed(flagBudgetName) {
		cfg.PerceptronBudgetKiB = opts.budgetKiB
	}
	if flags.Changed(flagProfileName) {
		cfg.ProfileTop = opts.profileTop
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openTrace(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return trace.Decompress(io.NopCloser(cmd.InOrStdin()))
	}
	return trace.Open(path)
}

func run(cmd *cobra.Command, opts *options, path string) error {
	switch opts.format {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("unknown report format %q", opts.format)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	scheme, err := cfg.Scheme()
	if err != nil {
		return err
	}
	p, err := scheme.Build()
	if err != nil {
		return err
	}

	input := path
	if input == "" {
		input = "-"
	}
	slog.Debug("starting", slog.String("scheme", scheme.String()), slog.String("input", input))

	rc, err := openTrace(cmd, path)
	if err != nil {
		return err
	}
	defer rc.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	var simOpts []driver.Option

	var verbose *driver.VerboseHook
	if cfg.Verbose {
		verbose = driver.NewVerboseHook(out)
		simOpts = append(simOpts, driver.WithHook(verbose))
	}

	var prof *profile.Profile
	if cfg.ProfileTop > 0 {
		prof = profile.New(profile.Config{Sets: cfg.ProfileSets, Ways: cfg.ProfileWays})
		simOpts = append(simOpts, driver.WithHook(prof))
	}

	if opts.progress && isTerminal(cmd.ErrOrStderr()) {
		errOut := cmd.ErrOrStderr()
		simOpts = append(simOpts, driver.WithHook(&driver.CountHook{
			Interval: progressInterval,
			Report: func(branches uint64, stats driver.Stats) {
				fmt.Fprintf(errOut, "\r%d branches, %.2f%% mispredicted", branches, stats.MispredictionRate())
			},
		}))
		defer fmt.Fprintln(errOut)
	}

	simulator := driver.NewSimulator(p, simOpts...)

	stopCPUProfile, err := startCPUProfile(opts.cpuProfile)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := simulator.Run(trace.NewReader(rc))
	stopCPUProfile()
	if err != nil {
		return err
	}
	if err := writeHeapProfile(opts.memProfile); err != nil {
		return err
	}
	if verbose != nil && verbose.Err() != nil {
		return verbose.Err()
	}
	slog.Info("run finished",
		slog.Uint64("branches", stats.Branches),
		slog.Duration("elapsed", time.Since(start)))

	var hot []profile.Entry
	if prof != nil {
		hot = prof.Top(cfg.ProfileTop)
		slog.Debug("profile", slog.Any("stats", prof.Stats()))
	}

	summary := report.NewSummary(scheme.String(), stats, hot)
	if err := report.Render(out, opts.format, summary); err != nil {
		return err
	}

	if opts.xlsxPath != "" {
		if err := report.WriteXLSX(opts.xlsxPath, summary); err != nil {
			return err
		}
		slog.Info("workbook written", slog.String("path", opts.xlsxPath))
	}
	if opts.metricsPath != "" {
		if err := report.WriteMetrics(opts.metricsPath, summary); err != nil {
			return err
		}
		slog.Info("metrics written", slog.String("path", opts.metricsPath))
	}

	return out.Flush()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
