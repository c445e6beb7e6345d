package batch

import (
	"errors"
	"fmt"
)

// MatchAll as InputFileType selects every regular file in the input directory.
const MatchAll = "*"

// Request describes one batch run. It is not modified by Run.
type Request struct {
	InputDir       string          `json:"input_dir"`
	OutputDir      string          `json:"output_dir"`
	InputFileType  string          `json:"input_file_type"`
	OutputFileType string          `json:"output_file_type"`
	Quality        float64         `json:"quality"`
	Collision      CollisionPolicy `json:"collision,omitempty"`
}

var (
	ErrInvalidRequest = errors.New("invalid batch request")
	ErrInputDir       = errors.New("input directory unreadable")
	ErrOutputDir      = errors.New("output directory cannot be created")
)

func (r Request) Validate() error {
	if r.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", ErrInvalidRequest)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalidRequest)
	}
	if r.InputFileType == "" {
		return fmt.Errorf("%w: input_file_type is required", ErrInvalidRequest)
	}
	if _, err := ParseCollisionPolicy(string(r.Collision)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// CollisionPolicy decides what happens when two sources in one run map to
// the same destination file.
type CollisionPolicy string

const (
	// CollisionRename gives later sources a " - dupN" suffix.
	CollisionRename CollisionPolicy = "rename"
	// CollisionOverwrite lets the last source win.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionFail records the later source as a failed file.
	CollisionFail CollisionPolicy = "fail"
)

// ParseCollisionPolicy accepts the policy names; empty means CollisionRename.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case "", CollisionRename:
		return CollisionRename, nil
	case CollisionOverwrite:
		return CollisionOverwrite, nil
	case CollisionFail:
		return CollisionFail, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
}
