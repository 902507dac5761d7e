package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/events"
	"github.com/halvard/wordvault-api/internal/store"
)

// stubTxRunner runs the transactional function directly with a nil
// transaction; the mock stores ignore the handle anyway.
type stubTxRunner struct{}

func (stubTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// MockCollectionStore is a mock implementation of store.CollectionStore.
type MockCollectionStore struct {
	mock.Mock
}

func (m *MockCollectionStore) Create(ctx context.Context, collection *domain.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	args := m.Called(ctx, id)
	collection, _ := args.Get(0).(*domain.Collection)
	return collection, args.Error(1)
}

func (m *MockCollectionStore) AddWord(ctx context.Context, collectionID, wordID uuid.UUID) error {
	args := m.Called(ctx, collectionID, wordID)
	return args.Error(0)
}

func (m *MockCollectionStore) GetWords(ctx context.Context, collectionID uuid.UUID) ([]*domain.Word, error) {
	args := m.Called(ctx, collectionID)
	words, _ := args.Get(0).([]*domain.Word)
	return words, args.Error(1)
}

func (m *MockCollectionStore) WithTx(tx *sql.Tx) store.CollectionStore {
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

// MockPracticeSessionStore is a mock implementation of
// store.PracticeSessionStore.
type MockPracticeSessionStore struct {
	mock.Mock
}

func (m *MockPracticeSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockPracticeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*domain.PracticeSession)
	return session, args.Error(1)
}

func (m *MockPracticeSessionStore) Update(ctx context.Context, session *domain.PracticeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockPracticeSessionStore) WithTx(tx *sql.Tx) store.PracticeSessionStore {
	return m
}

// MockEventEmitter is a mock implementation of events.EventEmitter.
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
