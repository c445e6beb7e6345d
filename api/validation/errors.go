package validation

import "errors"

var (
	ErrMissingInputDir   = errors.New("input_dir is required")
	ErrMissingOutputDir  = errors.New("output_dir is required")
	ErrMissingQuality    = errors.New("quality is required")
	ErrQualityRange      = errors.New("quality must be between 0 and 100")
	ErrInvalidInputType  = errors.New("input_file_type must be an extension without a leading dot, or *")
	ErrUnsupportedFormat = errors.New("unsupported output type")
	ErrInvalidCollision  = errors.New("collision must be rename, overwrite or fail")
)

// Code maps a validation error to the machine readable code returned to
// clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrQualityRange), errors.Is(err, ErrMissingQuality):
		return "invalid_quality"
	default:
		return "invalid_request"
	}
}
