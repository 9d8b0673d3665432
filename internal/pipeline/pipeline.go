package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/engine"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/metrics"
	"github.com/mini-maxit/judge/internal/models"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/internal/repository"
	"github.com/mini-maxit/judge/internal/stages/verifier"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
)

type Worker interface {
	// ProcessSubmission judges one submission end to end. The returned error is
	// non-nil only when the verdict could not be persisted.
	ProcessSubmission(ctx context.Context, submissionID int64) error
	GetState() WorkerState
}

type WorkerState struct {
	Status                 constants.WorkerStatus `json:"status"`
	ProcessingSubmissionID int64                  `json:"processing_submission_id,omitempty"`
}

type worker struct {
	mu          sync.RWMutex
	state       WorkerState
	submissions repository.SubmissionRepository
	problems    storage.ProblemStorage
	engine      engine.Engine
	publisher   responder.Publisher
	logger      *zap.SugaredLogger
}

func NewWorker(
	submissions repository.SubmissionRepository,
	problems storage.ProblemStorage,
	engine engine.Engine,
	publisher responder.Publisher,
) Worker {
	return &worker{
		state:       WorkerState{Status: constants.WorkerStatusIdle},
		submissions: submissions,
		problems:    problems,
		engine:      engine,
		publisher:   publisher,
		logger:      logger.NewNamedLogger("pipeline"),
	}
}

func (ws *worker) GetState() WorkerState {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.state
}

func (ws *worker) setState(status constants.WorkerStatus, submissionID int64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state = WorkerState{Status: status, ProcessingSubmissionID: submissionID}
}

func (ws *worker) ProcessSubmission(ctx context.Context, submissionID int64) (err error) {
	ws.setState(constants.WorkerStatusBusy, submissionID)
	metrics.JobsInFlight.Inc()
	defer func() {
		metrics.JobsInFlight.Dec()
		ws.setState(constants.WorkerStatusIdle, 0)
	}()

	sub, err := ws.submissions.Get(ctx, submissionID)
	if err != nil {
		ws.logger.Errorf("Failed to load submission: %s [SubmissionID: %d]", err, submissionID)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Recovered from panic: %v [SubmissionID: %d]", r, submissionID)
			err = ws.finish(ctx, sub, systemError(fmt.Errorf("panic while judging: %v", r)))
		}
	}()

	ws.logger.Infof("Judging submission [SubmissionID: %d]", submissionID)
	if err := ws.submissions.MarkJudging(ctx, submissionID); err != nil {
		ws.logger.Errorf("Failed to mark submission as judging: %s [SubmissionID: %d]", err, submissionID)
		return err
	}

	code, err := ws.loadSource(ctx, sub)
	if err != nil {
		ws.logger.Errorf("Failed to load source: %s [SubmissionID: %d]", err, submissionID)
		return ws.finish(ctx, sub, systemError(err))
	}

	testCases, err := ws.problems.LoadTestCases(ctx, sub.ProblemID)
	if err != nil {
		ws.logger.Errorf("Failed to load test cases of problem %d: %s [SubmissionID: %d]",
			sub.ProblemID, err, submissionID)
		return ws.finish(ctx, sub, systemError(err))
	}

	result := ws.engine.RunFailFast(ctx, sub.Language, code, testCases)
	return ws.finish(ctx, sub, result)
}

func (ws *worker) loadSource(ctx context.Context, sub *models.Submission) (string, error) {
	if sub.SourceCode != "" {
		return sub.SourceCode, nil
	}
	if sub.SourceKey == "" {
		return "", customErr.ErrEmptySubmission
	}
	return ws.problems.LoadSource(ctx, sub.SourceKey)
}

// finish persists the verdict and then publishes the completion event.
// A failed publish is only logged since the stored verdict is authoritative.
func (ws *worker) finish(ctx context.Context, sub *models.Submission, result solution.Result) error {
	if err := ws.submissions.SaveResult(ctx, sub.ID, result); err != nil {
		ws.logger.Errorf("Failed to persist verdict %s: %s [SubmissionID: %d]", result.Verdict, err, sub.ID)
		return err
	}

	event := messages.CompletionEvent{
		Type:         constants.QueueMessageTypeCompletion,
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		Verdict:      result.Verdict,
	}
	if err := ws.publisher.PublishCompletion(ctx, event); err != nil {
		ws.logger.Warnf("Failed to publish completion event: %s [SubmissionID: %d]", err, sub.ID)
	}

	ws.logger.Infof("Finished judging with verdict %s [SubmissionID: %d]", result.Verdict, sub.ID)
	return nil
}

func systemError(err error) solution.Result {
	return solution.Result{
		Verdict: solution.SystemError,
		Message: verifier.MessageFor(solution.SystemError),
		Cause:   err.Error(),
	}
}
