package models

import (
	"encoding/json"
	"time"
)

type BatchStatus string

const (
	StatusPending    BatchStatus = "pending"
	StatusProcessing BatchStatus = "processing"
	StatusCompleted  BatchStatus = "completed"
	StatusFailed     BatchStatus = "failed"
)

// Terminal reports whether the worker is done with the batch.
func (s BatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Batch struct {
	ID             string
	TraceID        string
	InputDir       string
	OutputDir      string
	InputFileType  string
	OutputFileType string
	Quality        float64
	Collision      string
	Status         BatchStatus
	ErrorMessage   string
	FilesConverted int
	FilesFailed    int
	ElapsedSeconds float64
	AvgInputBytes  float64
	AvgOutputBytes float64
	Failures       json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}
