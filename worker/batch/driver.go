// Package batch converts every matching image in a directory and aggregates
// size and timing statistics for the run.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"imageConverter/worker/converter"
)

// Progress is reported after each file, successful or not.
type Progress struct {
	Done   int
	Total  int
	Source string
	Err    error
}

// Option configures a Driver.
type Option func(*Driver)

// WithProgress registers a callback invoked on the Run goroutine after every
// file.
func WithProgress(fn func(Progress)) Option {
	return func(d *Driver) { d.progress = fn }
}

// WithClock replaces time.Now for elapsed time measurement.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// Driver runs batch requests one file at a time. A Driver holds no per-run
// state and may be reused for successive runs.
type Driver struct {
	logger    *zap.Logger
	converter *converter.Converter
	progress  func(Progress)
	now       func() time.Time
}

// NewDriver returns a Driver converting with conv. A nil logger discards
// output and a nil conv gets a Converter sharing the logger.
func NewDriver(logger *zap.Logger, conv *converter.Converter, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conv == nil {
		conv = converter.NewConverter(logger)
	}
	d := &Driver{
		logger:    logger,
		converter: conv,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run converts the matching files of req.InputDir into req.OutputDir one at a
// time. Only directory-level problems and cancellation are returned as errors;
// a file that cannot be converted is logged, counted in the result and
// skipped. ctx is checked before each file is started.
func (d *Driver) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParseCollisionPolicy(string(req.Collision))

	log := d.logger.With(
		zap.String("input_dir", req.InputDir),
		zap.String("output_dir", req.OutputDir),
		zap.String("input_type", req.InputFileType),
		zap.String("output_type", req.OutputFileType),
	)

	stats := NewStats(d.now)

	files, err := Discover(req.InputDir, req.InputFileType)
	if err != nil {
		log.Error("Failed to read input directory", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrInputDir, req.InputDir, err)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		log.Error("Failed to create output directory", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrOutputDir, req.OutputDir, err)
	}

	target, targetErr := converter.ParseTarget(req.OutputFileType, req.Quality)
	if targetErr != nil {
		log.Warn("Unsupported output type, every matched file will fail", zap.Error(targetErr))
	}

	log.Info("Starting batch",
		zap.Int("files", len(files)),
		zap.Float64("quality", req.Quality),
		zap.String("collision", string(policy)),
	)

	resolver := newCollisionResolver(policy)
	for i, source := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("Batch interrupted", zap.Int("remaining", len(files)-i))
			return nil, fmt.Errorf("batch interrupted: %w", err)
		}

		err := d.convertOne(log, req, source, target, resolver, stats)
		if err != nil {
			stats.Failure(FileFailure{
				Path:   source,
				Kind:   converter.KindOf(err).String(),
				Reason: err.Error(),
			})
			log.Warn("Failed to convert file",
				zap.String("source", source),
				zap.Stringer("kind", converter.KindOf(err)),
				zap.Error(err),
			)
		}

		if d.progress != nil {
			d.progress(Progress{Done: i + 1, Total: len(files), Source: source, Err: err})
		}
	}

	result := stats.Finalize()
	log.Info("Batch completed",
		zap.Int("files_converted", result.FilesConverted),
		zap.Int("files_failed", result.FilesFailed),
		zap.Float64("elapsed_seconds", result.ElapsedSeconds),
		zap.Float64("avg_input_bytes", result.AvgInputBytes),
		zap.Float64("avg_output_bytes", result.AvgOutputBytes),
	)
	return result, nil
}

func (d *Driver) convertOne(
	log *zap.Logger,
	req Request,
	source string,
	target converter.Target,
	resolver *collisionResolver,
	stats *Stats,
) error {
	if target == nil {
		return &converter.Error{
			Kind: converter.KindUnsupportedFormat,
			Op:   "select adapter",
			Path: source,
			Err:  fmt.Errorf("%w: %q", converter.ErrUnsupportedFormat, req.OutputFileType),
		}
	}

	in, err := os.Stat(source)
	if err != nil {
		return &converter.Error{Kind: converter.KindIO, Op: "stat", Path: source, Err: err}
	}

	dest, err := resolver.resolve(source, DestinationPath(req.OutputDir, source, req.OutputFileType))
	if err != nil {
		return &converter.Error{Kind: converter.KindIO, Op: "resolve destination", Path: source, Err: err}
	}

	if err := d.converter.Convert(source, dest, target); err != nil {
		return err
	}

	out, err := os.Stat(dest)
	if err != nil {
		return &converter.Error{Kind: converter.KindIO, Op: "stat", Path: dest, Err: err}
	}

	stats.Success(in.Size(), out.Size())
	log.Info("Converted file",
		zap.String("source", source),
		zap.String("output", filepath.Base(dest)),
		zap.Int64("input_bytes", in.Size()),
		zap.Int64("output_bytes", out.Size()),
	)
	return nil
}
