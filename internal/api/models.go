package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT token used for API authorization
	Token string `json:"token"`
}

// CreateCollectionRequest defines the payload for creating a collection.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CollectionResponse describes one collection.
type CollectionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AddWordRequest defines the payload for the manual word addition
// endpoint. Only the text is required; enrichment fields are optional.
type AddWordRequest struct {
	Text          string   `json:"text" validate:"required,min=1,max=200"`
	TranslationEN string   `json:"translation_en,omitempty"`
	TranslationRU string   `json:"translation_ru,omitempty"`
	PartOfSpeech  string   `json:"part_of_speech,omitempty"`
	Definition    string   `json:"definition,omitempty"`
	Examples      []string `json:"examples,omitempty"`
}

// SubmitBatchRequest defines the payload for bulk word ingestion.
// The per-word blank check and the batch size cap are enforced again by
// the domain layer; the tags here just reject malformed requests early.
type SubmitBatchRequest struct {
	Words []string `json:"words" validate:"required,min=1,max=1000"`
}

// SubmitBatchResponse acknowledges an accepted ingestion job.
type SubmitBatchResponse struct {
	JobID     uuid.UUID `json:"job_id"`
	Status    string    `json:"status"`
	WordCount int       `json:"word_count"`
}

// SubTaskView describes one word's progress within an ingestion job.
type SubTaskView struct {
	ID     uuid.UUID  `json:"id"`
	Word   string     `json:"word"`
	Status string     `json:"status"`
	WordID *uuid.UUID `json:"word_id,omitempty"`
}

// BatchProgress summarizes sub-task counts per status.
type BatchProgress struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Added      int `json:"added"`
	Failed     int `json:"failed"`
}

// BatchStatusResponse describes an ingestion job, including per-word
// statuses so partial failures are observable.
type BatchStatusResponse struct {
	ID           uuid.UUID     `json:"id"`
	CollectionID uuid.UUID     `json:"collection_id"`
	Status       string        `json:"status"`
	Progress     BatchProgress `json:"progress"`
	SubTasks     []SubTaskView `json:"sub_tasks"`
	CreatedAt    time.Time     `json:"created_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// newBatchStatusResponse builds the API view of an ingestion job.
func newBatchStatusResponse(job *domain.IngestionJob) BatchStatusResponse {
	pending, processing, added, failed := job.Progress()
	resp := BatchStatusResponse{
		ID:           job.ID,
		CollectionID: job.CollectionID,
		Status:       string(job.Status),
		Progress: BatchProgress{
			Pending:    pending,
			Processing: processing,
			Added:      added,
			Failed:     failed,
		},
		SubTasks:    make([]SubTaskView, 0, len(job.SubTasks)),
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
	for _, st := range job.SubTasks {
		resp.SubTasks = append(resp.SubTasks, SubTaskView{
			ID:     st.ID,
			Word:   st.Word,
			Status: string(st.Status),
			WordID: st.ResultWordID,
		})
	}
	return resp
}

// StartPracticeRequest defines the payload for starting a quiz session.
// A zero question count selects the configured default.
type StartPracticeRequest struct {
	QuestionCount int `json:"question_count" validate:"omitempty,oneof=5 10 20 50"`
}

// AnswerRequest defines the payload for answering the current question.
// SelectedIndex is a pointer so that index zero survives validation.
type AnswerRequest struct {
	SelectedIndex *int `json:"selected_index" validate:"required,min=0"`
}

// QuestionView is the client-facing form of the session's current
// question. The correct index is deliberately absent; it is only revealed
// through the answer response.
type QuestionView struct {
	Index         int      `json:"index"`
	Prompt        string   `json:"prompt"`
	Answers       []string `json:"answers"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
}

// ScoreSummary reports a completed session's result.
type ScoreSummary struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// PracticeSessionResponse describes a practice session. In-progress
// sessions carry the current question; completed sessions carry the score.
type PracticeSessionResponse struct {
	ID              uuid.UUID     `json:"id"`
	CollectionID    uuid.UUID     `json:"collection_id"`
	CollectionName  string        `json:"collection_name"`
	QuestionCount   int           `json:"question_count"`
	CurrentIndex    *int          `json:"current_index,omitempty"`
	CurrentQuestion *QuestionView `json:"current_question,omitempty"`
	Completed       bool          `json:"completed"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	Score           *ScoreSummary `json:"score,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// newPracticeSessionResponse builds the API view of a session.
func newPracticeSessionResponse(session *domain.PracticeSession) PracticeSessionResponse {
	resp := PracticeSessionResponse{
		ID:             session.ID,
		CollectionID:   session.CollectionID,
		CollectionName: session.CollectionName,
		QuestionCount:  len(session.Questions),
		CurrentIndex:   session.CurrentIndex,
		Completed:      session.IsCompleted(),
		CompletedAt:    session.CompletedAt,
		CreatedAt:      session.CreatedAt,
	}

	if session.IsCompleted() {
		correct, total := session.Score()
		resp.Score = &ScoreSummary{Correct: correct, Total: total}
		return resp
	}

	if q := session.CurrentQuestion(); q != nil && session.CurrentIndex != nil {
		view := QuestionView{
			Index:         *session.CurrentIndex,
			Prompt:        q.Prompt,
			Answers:       make([]string, 0, len(q.Answers)),
			SelectedIndex: q.SelectedIndex,
		}
		for _, a := range q.Answers {
			view.Answers = append(view.Answers, a.Text)
		}
		resp.CurrentQuestion = &view
	}
	return resp
}
