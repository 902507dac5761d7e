package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/halvard/wordvault-api/internal/config"
	"github.com/halvard/wordvault-api/internal/events"
	"github.com/halvard/wordvault-api/internal/platform/gemini"
	"github.com/halvard/wordvault-api/internal/service"
	"github.com/halvard/wordvault-api/internal/service/auth"
	"github.com/halvard/wordvault-api/internal/store"
	"github.com/halvard/wordvault-api/internal/task"
)

// application holds all the initialized components of the server and
// owns their lifecycle. Construction wires the full dependency graph;
// Run starts the background workers and the HTTP server and blocks
// until shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	wordStore       store.WordStore
	collectionStore store.CollectionStore
	jobStore        store.IngestionJobStore
	sessionStore    store.PracticeSessionStore
	txRunner        store.TxRunner

	jwtService       auth.JWTService
	passwordVerifier *auth.BcryptVerifier

	collectionService service.CollectionService
	ingestionService  service.IngestionService
	practiceService   service.PracticeService

	eventEmitter events.EventEmitter
	taskRunner   *task.Runner
	sweeper      *task.IngestionSweeper

	sweeperCancel context.CancelFunc
	sweeperDone   sync.WaitGroup
}

// newApplication wires the full dependency graph from configuration:
// stores, auth, the enrichment client, services, the task runner, the
// ingestion sweeper and the streak event handler.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	stores := newStores(db, log)
	txRunner := store.SQLTxRunner{DB: db}

	enricher, err := gemini.NewEnricher(ctx, log, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment client: %w", err)
	}

	taskRunner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, log)

	eventEmitter := events.NewInMemoryEventEmitter(log)

	collectionService, err := service.NewCollectionService(
		stores.collections, stores.words, txRunner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection service: %w", err)
	}

	ingestionService, err := service.NewIngestionService(
		stores.jobs, stores.collections, txRunner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion service: %w", err)
	}

	quizGenerator := service.NewQuizGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	practiceService, err := service.NewPracticeService(
		stores.sessions,
		stores.collections,
		txRunner,
		quizGenerator,
		eventEmitter,
		cfg.Practice.DefaultQuestionCount,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create practice service: %w", err)
	}

	taskFactory := task.NewWordEnrichmentTaskFactory(
		stores.words, enricher, ingestionService, log)
	sweeper := task.NewIngestionSweeper(
		stores.jobs,
		txRunner,
		taskRunner,
		taskFactory,
		task.SweeperConfig{
			Interval:         cfg.Ingestion.SweepInterval,
			LeaseTimeout:     cfg.Ingestion.LeaseTimeout,
			DispatchPerSweep: cfg.Ingestion.DispatchPerSweep,
		},
		log,
	)

	eventEmitter.RegisterHandler(task.NewStreakEventHandler(
		stores.users, txRunner, taskRunner, log))

	return &application{
		config:            cfg,
		logger:            log,
		db:                db,
		userStore:         stores.users,
		wordStore:         stores.words,
		collectionStore:   stores.collections,
		jobStore:          stores.jobs,
		sessionStore:      stores.sessions,
		txRunner:          txRunner,
		jwtService:        jwtService,
		passwordVerifier:  passwordVerifier,
		collectionService: collectionService,
		ingestionService:  ingestionService,
		practiceService:   practiceService,
		eventEmitter:      eventEmitter,
		taskRunner:        taskRunner,
		sweeper:           sweeper,
	}, nil
}

// Run starts the background workers and the HTTP server. It blocks
// until the server shuts down, then stops the workers in reverse
// dependency order.
func (app *application) Run(ctx context.Context) error {
	app.taskRunner.Start()

	sweepCtx, cancel := context.WithCancel(ctx)
	app.sweeperCancel = cancel
	app.sweeperDone.Add(1)
	go func() {
		defer app.sweeperDone.Done()
		app.sweeper.Run(sweepCtx)
	}()

	app.logger.Info("application started",
		slog.Int("port", app.config.Server.Port),
		slog.Int("task_workers", app.config.Task.WorkerCount),
	)

	return startHTTPServer(app)
}

// cleanup stops background workers. The sweeper stops first so no new
// enrichment tasks are dispatched while the runner drains.
func (app *application) cleanup() {
	if app.sweeperCancel != nil {
		app.sweeperCancel()
		app.sweeperDone.Wait()
	}
	app.taskRunner.Stop()
	app.logger.Info("background workers stopped")
}
