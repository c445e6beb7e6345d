package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"imageConverter/api/dto"
	"imageConverter/api/middleware"
	"imageConverter/api/validation"
)

const maxBodyBytes = 1 << 20

type BatchService interface {
	CreateBatch(ctx context.Context, traceID string, req *dto.CreateBatchRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, batchID string) (*dto.BatchResponse, error)
}

type BatchHandler struct {
	service BatchService
	logger  *zap.Logger
}

func NewBatchHandler(service BatchService, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the batch routes on mux.
func (h *BatchHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /batches", h.Create)
	mux.HandleFunc("GET /batches/{id}", h.Get)
}

func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	var req dto.CreateBatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.handleError(w, "Invalid request body", "invalid_request", err, traceID, http.StatusBadRequest)
		return
	}

	if err := validation.ValidateBatch(&req); err != nil {
		h.handleError(w, err.Error(), validation.Code(err), err, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateBatch(r.Context(), traceID, &req)
	if err != nil {
		h.handleError(w, "Failed to create batch", "", err, traceID, http.StatusInternalServerError)
		return
	}

	h.logger.Info("Batch accepted",
		zap.String("trace_id", traceID),
		zap.String("batch_id", resp.ID),
		zap.String("input_dir", req.InputDir),
		zap.String("output_type", req.OutputFileType),
	)

	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	batchID := r.PathValue("id")
	if batchID == "" {
		h.handleError(w, "Batch ID is required", "invalid_request", nil, traceID, http.StatusBadRequest)
		return
	}
	// Batch ids are UUIDs; anything else cannot exist.
	if _, err := uuid.Parse(batchID); err != nil {
		h.handleError(w, "Batch not found", "not_found", err, traceID, http.StatusNotFound)
		return
	}

	resp, err := h.service.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, dto.ErrBatchNotFound) {
			h.handleError(w, "Batch not found", "not_found", err, traceID, http.StatusNotFound)
			return
		}
		h.handleError(w, "Failed to get batch", "", err, traceID, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *BatchHandler) handleError(w http.ResponseWriter, message, code string, err error, traceID string, status int) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log(message,
		zap.String("trace_id", traceID),
		zap.Int("status", status),
		zap.Error(err),
	)

	h.respondJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Code:    code,
		TraceID: traceID,
	})
}

func (h *BatchHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
