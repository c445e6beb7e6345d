package validation

import (
	"fmt"
	"math"
	"strings"

	"imageConverter/api/dto"
	"imageConverter/worker/batch"
	"imageConverter/worker/converter"
)

// ValidateBatch checks a create request before anything is persisted. The
// output type is parsed here so an unknown token is rejected up front instead
// of failing every file in the worker.
func ValidateBatch(req *dto.CreateBatchRequest) error {
	if strings.TrimSpace(req.InputDir) == "" {
		return ErrMissingInputDir
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return ErrMissingOutputDir
	}
	if req.Quality == nil {
		return ErrMissingQuality
	}
	if q := *req.Quality; math.IsNaN(q) || q < 0 || q > 100 {
		return fmt.Errorf("%w: got %v", ErrQualityRange, q)
	}
	if req.InputFileType == "" || strings.HasPrefix(req.InputFileType, ".") || strings.ContainsAny(req.InputFileType, `/\`) {
		return fmt.Errorf("%w: got %q", ErrInvalidInputType, req.InputFileType)
	}
	if _, err := converter.ParseFormat(req.OutputFileType); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.OutputFileType)
	}
	if _, err := batch.ParseCollisionPolicy(req.Collision); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidCollision, req.Collision)
	}
	return nil
}
