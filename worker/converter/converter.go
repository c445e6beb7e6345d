package converter

import (
	"fmt"

	"go.uber.org/zap"
)

type Converter struct {
	logger *zap.Logger
}

func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// Convert decodes inputPath and writes it to outputPath in the target's
// format. Failures come back as *Error; decoders that panic on malformed
// input are reported as decode errors.
func (c *Converter) Convert(inputPath, outputPath string, target Target) (err error) {
	if target == nil {
		return newError(KindUnsupportedFormat, "convert", inputPath, ErrUnsupportedFormat)
	}

	c.logger.Debug("Starting conversion",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Stringer("format", target.Format()),
	)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered during conversion",
				zap.String("input", inputPath),
				zap.Any("error", r),
			)
			err = newError(KindDecode, "convert", inputPath, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := target.convert(inputPath, outputPath); err != nil {
		return err
	}

	c.logger.Debug("Conversion completed",
		zap.String("output", outputPath),
	)
	return nil
}
