package converter

import (
	"fmt"
	"image/png"
)

// Format is one of the supported output formats.
type Format int

const (
	FormatWebP Format = iota + 1
	FormatJPEG
	FormatPNG
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// ParseFormat resolves an output type token. "tif" is an alias of "tiff".
// Tokens are matched exactly; "jpg" and "PNG" are not accepted.
func ParseFormat(token string) (Format, error) {
	switch token {
	case "webp":
		return FormatWebP, nil
	case "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return 0, newError(KindUnsupportedFormat, "parse output type", "",
			fmt.Errorf("%w: %q", ErrUnsupportedFormat, token))
	}
}

// Target is an output format together with its encoding parameters.
// The set of implementations is closed: WebP, JPEG, PNG and TIFF.
type Target interface {
	Format() Format
	convert(inputPath, outputPath string) error
}

// NewTarget builds the Target for format from a 0-100 quality. Out of range
// values are clamped; integer-valued parameters truncate.
func NewTarget(format Format, quality float64) (Target, error) {
	q := clampQuality(quality)
	switch format {
	case FormatWebP:
		return WebP{Quality: float32(q)}, nil
	case FormatJPEG:
		return JPEG{Quality: int(q)}, nil
	case FormatPNG:
		return PNG{Level: png.BestSpeed}, nil
	case FormatTIFF:
		return TIFF{Compression: CompressionFor(int(q)), Quality: int(q)}, nil
	default:
		return nil, newError(KindUnsupportedFormat, "build target", "",
			fmt.Errorf("%w: %v", ErrUnsupportedFormat, format))
	}
}

// ParseTarget is ParseFormat followed by NewTarget.
func ParseTarget(token string, quality float64) (Target, error) {
	format, err := ParseFormat(token)
	if err != nil {
		return nil, err
	}
	return NewTarget(format, quality)
}
