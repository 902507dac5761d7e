package api

import (
	"log/slog"
	"net/http"

	"github.com/halvard/wordvault-api/internal/api/shared"
	"github.com/halvard/wordvault-api/internal/service"
)

// PracticeHandler handles quiz session API requests.
type PracticeHandler struct {
	practiceService service.PracticeService
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler with the given dependencies.
func NewPracticeHandler(
	practiceService service.PracticeService,
	logger *slog.Logger,
) *PracticeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PracticeHandler{
		practiceService: practiceService,
		logger:          logger.With("component", "practice_handler"),
	}
}

// StartSession handles POST /collections/{id}/practice.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	// The body is optional; an absent or empty body selects the default
	// question count.
	req := StartPracticeRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}
	}

	session, err := h.practiceService.StartSession(r.Context(), userID, collectionID, req.QuestionCount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newPracticeSessionResponse(session))
}

// SubmitAnswer handles POST /practice/{id}/answer.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.practiceService.SubmitAnswer(r.Context(), userID, sessionID, *req.SelectedIndex)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Advance handles POST /practice/{id}/advance.
func (h *PracticeHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	result, err := h.practiceService.Advance(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetSession handles GET /practice/{id}.
func (h *PracticeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	session, err := h.practiceService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPracticeSessionResponse(session))
}
