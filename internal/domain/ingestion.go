package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestionJobStatus represents the lifecycle state of a bulk ingestion job.
type IngestionJobStatus string

// Possible ingestion job status values. A job has no intermediate state of
// its own: it stays pending until every sub-task is terminal.
const (
	IngestionJobStatusPending   IngestionJobStatus = "pending"
	IngestionJobStatusCompleted IngestionJobStatus = "completed"
)

// SubTaskStatus represents the state of one word's enrichment unit of work.
type SubTaskStatus string

// Possible sub-task status values. There is deliberately no stored
// "re-eligible" state: a processing sub-task whose lease has expired is
// computed as eligible again by EligibleSubTasks.
const (
	SubTaskStatusPending    SubTaskStatus = "pending"
	SubTaskStatusProcessing SubTaskStatus = "processing"
	SubTaskStatusAdded      SubTaskStatus = "added"
	SubTaskStatusFailed     SubTaskStatus = "failed"
)

// Ingestion-specific validation errors
var (
	ErrEmptyJobID           = errors.New("ingestion job ID cannot be empty")
	ErrEmptyJobUserID       = errors.New("ingestion job user ID cannot be empty")
	ErrEmptyJobCollectionID = errors.New("ingestion job collection ID cannot be empty")
	ErrEmptyBatch           = errors.New("word batch cannot be empty")
	ErrBatchTooLarge        = errors.New("word batch exceeds maximum size")
	ErrSubTaskNotFound      = errors.New("sub-task not found in job")
	ErrSubTaskTerminal      = errors.New("sub-task already in a terminal state")
)

// MaxBatchSize is the maximum number of words accepted in one submission.
const MaxBatchSize = 1000

// SubTask is one word's enrichment unit of work within an ingestion job.
// Each sub-task gets a stable ID at job creation so completions are routed
// unambiguously even when a batch contains duplicate words. The word text
// is immutable once created; only status and result fields mutate.
type SubTask struct {
	ID                  uuid.UUID     `json:"id"`
	Word                string        `json:"word"`
	Status              SubTaskStatus `json:"status"`
	ProcessingStartedAt *time.Time    `json:"processing_started_at,omitempty"`
	ResultWordID        *uuid.UUID    `json:"result_word_id,omitempty"`
}

// IsTerminal reports whether the sub-task has reached a final state.
func (st *SubTask) IsTerminal() bool {
	return st.Status == SubTaskStatusAdded || st.Status == SubTaskStatusFailed
}

// IngestionJob is one bulk submission of words targeting a collection.
// The job exclusively owns its sub-task list; all transitions go through
// the methods below and must be persisted as a whole-record write.
type IngestionJob struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	CollectionID uuid.UUID          `json:"collection_id"`
	SubTasks     []SubTask          `json:"sub_tasks"`
	Status       IngestionJobStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

// NewIngestionJob creates a job with one pending sub-task per submitted
// word. The batch must contain between 1 and MaxBatchSize words.
func NewIngestionJob(userID, collectionID uuid.UUID, words []string) (*IngestionJob, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyJobUserID
	}
	if collectionID == uuid.Nil {
		return nil, ErrEmptyJobCollectionID
	}
	if len(words) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(words) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d words (max %d)", ErrBatchTooLarge, len(words), MaxBatchSize)
	}

	subTasks := make([]SubTask, 0, len(words))
	for _, word := range words {
		if NormalizeWordText(word) == "" {
			return nil, fmt.Errorf("%w: blank word in batch", ErrValidation)
		}
		subTasks = append(subTasks, SubTask{
			ID:     uuid.New(),
			Word:   word,
			Status: SubTaskStatusPending,
		})
	}

	return &IngestionJob{
		ID:           uuid.New(),
		UserID:       userID,
		CollectionID: collectionID,
		SubTasks:     subTasks,
		Status:       IngestionJobStatusPending,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Validate checks if the IngestionJob has valid data.
func (j *IngestionJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}
	if j.UserID == uuid.Nil {
		return ErrEmptyJobUserID
	}
	if j.CollectionID == uuid.Nil {
		return ErrEmptyJobCollectionID
	}
	if len(j.SubTasks) == 0 {
		return ErrEmptyBatch
	}
	return nil
}

// EligibleSubTasks returns the IDs of sub-tasks that may be dispatched at
// the given instant: pending ones, and processing ones whose lease started
// longer than leaseTimeout ago (stale-lease recovery). Order follows the
// sub-task sequence so dispatch is deterministic per sweep.
func (j *IngestionJob) EligibleSubTasks(now time.Time, leaseTimeout time.Duration) []uuid.UUID {
	if j.Status == IngestionJobStatusCompleted {
		return nil
	}

	var eligible []uuid.UUID
	for i := range j.SubTasks {
		st := &j.SubTasks[i]
		switch st.Status {
		case SubTaskStatusPending:
			eligible = append(eligible, st.ID)
		case SubTaskStatusProcessing:
			if st.ProcessingStartedAt != nil && st.ProcessingStartedAt.Before(now.Add(-leaseTimeout)) {
				eligible = append(eligible, st.ID)
			}
		}
	}
	return eligible
}

// MarkDispatched records the lease for a sub-task about to be handed to
// asynchronous enrichment: status processing, lease clock started at now.
// The caller must persist the job before the enrichment call is allowed
// to complete.
func (j *IngestionJob) MarkDispatched(subTaskID uuid.UUID, now time.Time) error {
	st := j.subTask(subTaskID)
	if st == nil {
		return ErrSubTaskNotFound
	}
	if st.IsTerminal() {
		return ErrSubTaskTerminal
	}

	started := now.UTC()
	st.Status = SubTaskStatusProcessing
	st.ProcessingStartedAt = &started
	return nil
}

// CompleteSubTask records a sub-task outcome: a non-nil resultWordID marks
// it added, nil marks it failed. It then re-evaluates the whole job and,
// when every sub-task is terminal, rolls the job to completed. The boolean
// result reports whether this call completed the job.
func (j *IngestionJob) CompleteSubTask(subTaskID uuid.UUID, resultWordID *uuid.UUID, now time.Time) (bool, error) {
	st := j.subTask(subTaskID)
	if st == nil {
		return false, ErrSubTaskNotFound
	}
	if st.IsTerminal() {
		// A late completion after lease expiry and re-dispatch; first
		// writer wins, the rest are no-ops.
		return false, ErrSubTaskTerminal
	}

	if resultWordID != nil {
		id := *resultWordID
		st.Status = SubTaskStatusAdded
		st.ResultWordID = &id
	} else {
		st.Status = SubTaskStatusFailed
	}

	if j.Status != IngestionJobStatusCompleted && j.allTerminal() {
		completed := now.UTC()
		j.Status = IngestionJobStatusCompleted
		j.CompletedAt = &completed
		return true, nil
	}
	return false, nil
}

// Progress returns counts of sub-tasks per status, used for the
// per-sub-task observable job view.
func (j *IngestionJob) Progress() (pending, processing, added, failed int) {
	for i := range j.SubTasks {
		switch j.SubTasks[i].Status {
		case SubTaskStatusPending:
			pending++
		case SubTaskStatusProcessing:
			processing++
		case SubTaskStatusAdded:
			added++
		case SubTaskStatusFailed:
			failed++
		}
	}
	return pending, processing, added, failed
}

func (j *IngestionJob) subTask(id uuid.UUID) *SubTask {
	for i := range j.SubTasks {
		if j.SubTasks[i].ID == id {
			return &j.SubTasks[i]
		}
	}
	return nil
}

func (j *IngestionJob) allTerminal() bool {
	for i := range j.SubTasks {
		if !j.SubTasks[i].IsTerminal() {
			return false
		}
	}
	return true
}
