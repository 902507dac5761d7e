package api

import (
	"log/slog"
	"net/http"

	"github.com/halvard/wordvault-api/internal/api/shared"
	"github.com/halvard/wordvault-api/internal/service"
)

// IngestionHandler handles bulk word ingestion API requests.
type IngestionHandler struct {
	ingestionService service.IngestionService
	logger           *slog.Logger
}

// NewIngestionHandler creates a new IngestionHandler with the given dependencies.
func NewIngestionHandler(
	ingestionService service.IngestionService,
	logger *slog.Logger,
) *IngestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionHandler{
		ingestionService: ingestionService,
		logger:           logger.With("component", "ingestion_handler"),
	}
}

// SubmitBatch handles POST /collections/{id}/batches. An accepted batch
// returns 202 immediately; enrichment happens asynchronously and progress
// is polled through GetBatch.
func (h *IngestionHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req SubmitBatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	job, err := h.ingestionService.SubmitBatch(r.Context(), userID, collectionID, req.Words)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitBatchResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		WordCount: len(job.SubTasks),
	})
}

// GetBatch handles GET /batches/{id}.
func (h *IngestionHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	job, err := h.ingestionService.GetJob(r.Context(), userID, jobID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newBatchStatusResponse(job))
}
