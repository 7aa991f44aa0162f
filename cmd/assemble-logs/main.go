package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/assemble-logs/internal/app"
	"github.com/five82/assemble-logs/internal/buildinfo"
	"github.com/five82/assemble-logs/internal/config"
)

const appName = "assemble-logs"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           appName,
		Short:         "Reassemble rotated structured logs into one filtered timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildinfo.Read(appName).Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(versionText())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(newAssembleCmd(stdout, stderr, &configPath))
	return root
}

func versionText() string {
	var b strings.Builder
	_ = buildinfo.Read(appName).Write(&b)
	return b.String()
}

type assembleFlags struct {
	compact      bool
	errorDetails bool
	noFormat     bool
	pager        bool
	transform    string
	after        string
	color        string
	metricsFile  string
	maxAge       time.Duration
	maxFiles     int
}

func newAssembleCmd(stdout, stderr io.Writer, configPath *string) *cobra.Command {
	var flags assembleFlags

	cmd := &cobra.Command{
		Use:   "assemble <log-path> [jq-filter]",
		Short: "Print every record of a rotated log, oldest first",
		Long: `Assemble the rotated segments of <log-path> (plain or gzip) and the live
file into one timeline, keep the records matching the optional jq filter and
print them, followed by a summary line.`,
		Example: `  assemble-logs assemble /var/log/app.log
  assemble-logs assemble /var/log/app.log '.level == "ERRO"' --after "2021-09-02 22"
  assemble-logs assemble /var/log/app.log -n --jq-transformation '.msg'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			opts := optionsFromConfig(cfg, args)
			flags.apply(cmd, &opts)
			opts.Logger = logger

			_, err = app.Run(cmd.Context(), opts, stdout)
			return err
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&flags.compact, "compact", "c", false, "print extra fields on the record line")
	fs.BoolVarP(&flags.errorDetails, "error-details", "e", false, "show the error and the line for records that fail to decode")
	fs.BoolVarP(&flags.noFormat, "no-format", "n", false, "print lines as stored instead of formatting them")
	fs.StringVar(&flags.transform, "jq-transformation", "", "jq program applied to each line in no-format mode")
	fs.StringVarP(&flags.after, "after", "a", "", `only records at or after this time prefix, e.g. "2021-09-02 22"`)
	fs.BoolVar(&flags.pager, "pager", false, "browse the output in an interactive pager")
	fs.StringVar(&flags.color, "color", "", "colour output: auto, always or never")
	fs.DurationVar(&flags.maxAge, "max-age", 0, "ignore segments rotated longer ago than this")
	fs.IntVar(&flags.maxFiles, "max-files", 0, "read at most this many rotated segments (0 is unlimited)")
	fs.StringVar(&flags.metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")
	return cmd
}

func optionsFromConfig(cfg config.Config, args []string) app.Options {
	opts := app.Options{
		LogPath:      args[0],
		Compact:      cfg.Compact,
		ErrorDetails: cfg.ErrorDetails,
		Color:        cfg.Color,
		MaxAge:       cfg.MaxAge,
		MaxFiles:     cfg.MaxFiles,
		MetricsFile:  cfg.MetricsFile,
		PrefsPath:    cfg.PrefsPath,
	}
	if len(args) > 1 {
		opts.Filter = args[1]
	}
	return opts
}

// apply overrides opts with every flag given on the command line.
func (f assembleFlags) apply(cmd *cobra.Command, opts *app.Options) {
	fs := cmd.Flags()
	if fs.Changed("compact") {
		opts.Compact = f.compact
	}
	if fs.Changed("error-details") {
		opts.ErrorDetails = f.errorDetails
	}
	if fs.Changed("color") {
		opts.Color = f.color
	}
	if fs.Changed("max-age") {
		opts.MaxAge = f.maxAge
	}
	if fs.Changed("max-files") {
		opts.MaxFiles = f.maxFiles
	}
	if fs.Changed("metrics-file") {
		opts.MetricsFile = f.metricsFile
	}
	opts.NoFormat = f.noFormat
	opts.Pager = f.pager
	opts.Transform = f.transform
	opts.After = f.after
}
