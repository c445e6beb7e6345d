package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imageConverter/worker/batch"
	"imageConverter/worker/config"
	"imageConverter/worker/converter"
)

func main() {
	cmd := newRootCmd(config.Load(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	var (
		req       batch.Request
		collision string
		verbose   bool
		noBar     bool
	)

	cmd := &cobra.Command{
		Use:          "convert --input <dir> --output <dir>",
		Short:        "Convert every matching image in a directory to another format",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			policy, err := batch.ParseCollisionPolicy(collision)
			if err != nil {
				return err
			}
			req.Collision = policy

			logger := newLogger(cfg, verbose, stderr)
			defer logger.Sync()
			logger = logger.With(zap.String("run_id", uuid.New().String()))

			if err := converter.InitTIFFBackend(); err != nil {
				return fmt.Errorf("init tiff backend: %w", err)
			}

			opts := []batch.Option{}
			if !noBar {
				opts = append(opts, batch.WithProgress(progressReporter(stderr)))
			}

			driver := batch.NewDriver(logger, converter.NewConverter(logger), opts...)
			result, err := driver.Run(ctx, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&req.InputDir, "input", "i", "", "Directory with the source images")
	flags.StringVarP(&req.OutputDir, "output", "o", "", "Directory for converted images, created if missing")
	flags.StringVar(&req.InputFileType, "from", cfg.DefaultInputType, `Source extension to match, "*" for every file`)
	flags.StringVar(&req.OutputFileType, "to", "webp", "Output type: webp, jpeg, png, tiff or tif")
	flags.Float64VarP(&req.Quality, "quality", "q", cfg.DefaultQuality, "Quality 0-100; selects TIFF compression")
	flags.StringVar(&collision, "collision", cfg.CollisionPolicy, "Name collision policy: rename, overwrite or fail")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every converted file")
	flags.BoolVar(&noBar, "no-progress", false, "Disable the progress bar")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newLogger(cfg *config.Config, verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	if cfg.IsDevelopment() {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// progressReporter renders driver progress on w. The bar is sized on the first
// update, when the number of matched files is known.
func progressReporter(w io.Writer) func(batch.Progress) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	sized := false

	return func(p batch.Progress) {
		if !sized {
			bar.ChangeMax(p.Total)
			sized = true
		}
		_ = bar.Set(p.Done)
		if p.Done == p.Total {
			_ = bar.Finish()
			fmt.Fprintln(w)
		}
	}
}
