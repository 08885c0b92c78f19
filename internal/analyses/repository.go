package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gavel-labs/gavel/internal/documents"
	"github.com/gavel-labs/gavel/internal/pipeline"
	"github.com/gavel-labs/gavel/pkg/repository"
)

const runColumns = "id, document_id, status, provider, result, error, started_at, completed_at"

type repo struct {
	db      *sql.DB
	docs    documents.System
	runtime *pipeline.Runtime
	logger  *slog.Logger

	// base outlives individual requests; background pipeline executions run
	// on it so they survive the originating request and stop on shutdown.
	base context.Context
}

// New creates an analysis run repository implementing the System interface.
// base should be the lifecycle context so in-flight runs are cancelled on
// shutdown rather than orphaned.
func New(
	db *sql.DB,
	docs documents.System,
	runtime *pipeline.Runtime,
	base context.Context,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		docs:    docs,
		runtime: runtime,
		logger:  logger.With("system", "analyses"),
		base:    base,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Start(ctx context.Context, cmd StartCommand) (*Run, error) {
	// Resolve the text up front so missing documents and unsupported content
	// types fail the request instead of a background run.
	text, err := r.docs.Text(ctx, cmd.DocumentID)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO analysis_runs(id, document_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + runColumns

	run, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{uuid.New(), cmd.DocumentID, StatusRunning},
		scanRun,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "analysis run started", "id", run.ID, "document_id", run.DocumentID)
	go r.execute(run.ID, run.DocumentID, text)

	return &run, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q := "SELECT " + runColumns + " FROM analysis_runs WHERE id = $1"

	run, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Run, error) {
	q := "SELECT " + runColumns + " FROM analysis_runs WHERE document_id = $1 ORDER BY started_at DESC"

	runs, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	return runs, nil
}

// statusWriteTimeout bounds the terminal status write so it cannot hang a
// shutdown that is already draining.
const statusWriteTimeout = 10 * time.Second

// statusWriteContext returns a detached context for terminal status writes.
// A run that failed because the lifecycle context was cancelled must still
// record its outcome, or the row stays in the running status forever.
func statusWriteContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), statusWriteTimeout)
}

// execute runs the pipeline on the lifecycle context and records the outcome.
func (r *repo) execute(runID, documentID uuid.UUID, text string) {
	result, err := pipeline.Run(r.base, r.runtime, text)
	if err != nil {
		r.logger.Error("analysis run failed", "id", runID, "error", err)
		r.fail(runID, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("analysis result marshal failed", "id", runID, "error", err)
		r.fail(runID, err)
		return
	}

	ctx, cancel := statusWriteContext()
	defer cancel()

	if err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE analysis_runs
		 SET status = $1, provider = $2, result = $3, completed_at = now()
		 WHERE id = $4`,
		StatusCompleted, result.Provider, payload, runID,
	); err != nil {
		r.logger.Error("analysis run update failed", "id", runID, "error", err)
		return
	}

	if err := r.docs.MarkAnalyzed(ctx, documentID); err != nil {
		r.logger.Warn("document status update failed", "document_id", documentID, "error", err)
	}

	r.logger.Info(
		"analysis run completed",
		"id", runID,
		"document_id", documentID,
		"clause_count", len(result.Clauses),
		"high_risk", len(result.Triage.High),
	)
}

func (r *repo) fail(runID uuid.UUID, cause error) {
	ctx, cancel := statusWriteContext()
	defer cancel()

	message := cause.Error()
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE analysis_runs SET status = $1, error = $2, completed_at = now() WHERE id = $3",
		StatusFailed, message, runID,
	); err != nil {
		r.logger.Error("analysis run failure update failed", "id", runID, "error", err)
	}
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		run      Run
		provider sql.NullString
		result   []byte
		runError sql.NullString
		done     sql.NullTime
	)

	err := s.Scan(
		&run.ID,
		&run.DocumentID,
		&run.Status,
		&provider,
		&result,
		&runError,
		&run.StartedAt,
		&done,
	)
	if err != nil {
		return run, err
	}

	if provider.Valid {
		run.Provider = provider.String
	}
	if len(result) > 0 {
		run.Result = json.RawMessage(result)
	}
	if runError.Valid {
		run.Error = &runError.String
	}
	if done.Valid {
		t := done.Time
		run.CompletedAt = &t
	}

	return run, nil
}
