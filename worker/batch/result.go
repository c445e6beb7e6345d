package batch

// Result summarises a finished run. Averages are over converted files only and
// are zero when nothing was converted.
type Result struct {
	FilesConverted int           `json:"files_converted"`
	FilesFailed    int           `json:"files_failed"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	AvgInputBytes  float64       `json:"avg_input_bytes"`
	AvgOutputBytes float64       `json:"avg_output_bytes"`
	Failures       []FileFailure `json:"failures,omitempty"`
}

// FileFailure records why one source file was skipped.
type FileFailure struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}
