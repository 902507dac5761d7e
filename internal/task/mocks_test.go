package task

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/enrichment"
	"github.com/halvard/wordvault-api/internal/store"
)

// stubTxRunner runs the transactional function directly with a nil
// transaction handle.
type stubTxRunner struct{}

func (stubTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// MockIngestionJobStore is a mock implementation of store.IngestionJobStore.
type MockIngestionJobStore struct {
	mock.Mock
}

func (m *MockIngestionJobStore) Create(ctx context.Context, job *domain.IngestionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockIngestionJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*domain.IngestionJob)
	return job, args.Error(1)
}

func (m *MockIngestionJobStore) Update(ctx context.Context, job *domain.IngestionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockIngestionJobStore) FindOpenJobs(ctx context.Context) ([]*domain.IngestionJob, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]*domain.IngestionJob)
	return jobs, args.Error(1)
}

func (m *MockIngestionJobStore) WithTx(tx *sql.Tx) store.IngestionJobStore {
	return m
}

// MockWordStore is a mock implementation of store.WordStore.
type MockWordStore struct {
	mock.Mock
}

func (m *MockWordStore) Create(ctx context.Context, word *domain.Word) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	args := m.Called(ctx, id)
	word, _ := args.Get(0).(*domain.Word)
	return word, args.Error(1)
}

func (m *MockWordStore) GetByNormalizedText(ctx context.Context, userID uuid.UUID, normalizedText string) (*domain.Word, error) {
	args := m.Called(ctx, userID, normalizedText)
	word, _ := args.Get(0).(*domain.Word)
	return word, args.Error(1)
}

func (m *MockWordStore) Update(ctx context.Context, word *domain.Word) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return m
}

// MockUserStore is a mock implementation of store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockEnricher is a mock implementation of enrichment.Enricher.
type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, word string) (*enrichment.WordData, error) {
	args := m.Called(ctx, word)
	data, _ := args.Get(0).(*enrichment.WordData)
	return data, args.Error(1)
}

// recordingCompleter records sub-task completions in call order.
type completedCall struct {
	jobID        uuid.UUID
	subTaskID    uuid.UUID
	resultWordID *uuid.UUID
}

type recordingCompleter struct {
	calls []completedCall
	err   error
}

func (c *recordingCompleter) CompleteSubTask(ctx context.Context, jobID, subTaskID uuid.UUID, resultWordID *uuid.UUID) error {
	c.calls = append(c.calls, completedCall{jobID: jobID, subTaskID: subTaskID, resultWordID: resultWordID})
	return c.err
}

// recordingSubmitter captures submitted tasks instead of running them.
type recordingSubmitter struct {
	tasks []Task
	err   error
}

func (s *recordingSubmitter) Submit(ctx context.Context, task Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// stubTask is a no-op Task.
type stubTask struct {
	id uuid.UUID
}

func (t stubTask) ID() uuid.UUID                 { return t.id }
func (t stubTask) Type() string                  { return "stub" }
func (t stubTask) Execute(context.Context) error { return nil }

// stubFactory builds stub tasks and records which sub-tasks it saw.
type stubFactory struct {
	built []domain.SubTask
	err   error
}

func (f *stubFactory) NewEnrichmentTask(job *domain.IngestionJob, subTask domain.SubTask) (Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.built = append(f.built, subTask)
	return stubTask{id: uuid.New()}, nil
}
