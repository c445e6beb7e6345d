package dto

import (
	"encoding/json"
	"errors"
)

var ErrBatchNotFound = errors.New("batch not found")

type CreateBatchRequest struct {
	InputDir       string   `json:"input_dir"`
	OutputDir      string   `json:"output_dir"`
	InputFileType  string   `json:"input_file_type"`
	OutputFileType string   `json:"output_file_type"`
	Quality        *float64 `json:"quality"`
	Collision      string   `json:"collision,omitempty"`
}

type BatchResponse struct {
	ID             string       `json:"id"`
	TraceID        string       `json:"trace_id,omitempty"`
	Status         string       `json:"status"`
	InputDir       string       `json:"input_dir,omitempty"`
	OutputDir      string       `json:"output_dir,omitempty"`
	InputFileType  string       `json:"input_file_type,omitempty"`
	OutputFileType string       `json:"output_file_type,omitempty"`
	Quality        *float64     `json:"quality,omitempty"`
	ErrorMessage   string       `json:"error_message,omitempty"`
	Result         *BatchResult `json:"result,omitempty"`
	CreatedAt      string       `json:"created_at,omitempty"`
	CompletedAt    *string      `json:"completed_at,omitempty"`
}

type BatchResult struct {
	FilesConverted int             `json:"files_converted"`
	FilesFailed    int             `json:"files_failed"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
	AvgInputBytes  float64         `json:"avg_input_bytes"`
	AvgOutputBytes float64         `json:"avg_output_bytes"`
	Failures       json.RawMessage `json:"failures,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
