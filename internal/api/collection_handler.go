package api

import (
	"log/slog"
	"net/http"

	"github.com/halvard/wordvault-api/internal/api/shared"
	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/service"
)

// CollectionHandler handles collection and manual word API requests.
type CollectionHandler struct {
	collectionService service.CollectionService
	logger            *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler with the given dependencies.
func NewCollectionHandler(
	collectionService service.CollectionService,
	logger *slog.Logger,
) *CollectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger.With("component", "collection_handler"),
	}
}

// CreateCollection handles POST /collections.
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCollectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	collection, err := h.collectionService.CreateCollection(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CollectionResponse{
		ID:        collection.ID,
		Name:      collection.Name,
		CreatedAt: collection.CreatedAt,
	})
}

// AddWord handles POST /collections/{id}/words.
func (h *CollectionHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req AddWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	word, err := h.collectionService.AddWord(r.Context(), userID, collectionID, service.WordInput{
		Text:          req.Text,
		TranslationEN: req.TranslationEN,
		TranslationRU: req.TranslationRU,
		PartOfSpeech:  req.PartOfSpeech,
		Definition:    req.Definition,
		Examples:      req.Examples,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, word)
}
