package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lexiquest/exercise-engine/internal/content"
	"github.com/lexiquest/exercise-engine/internal/events"
	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/session"
	"github.com/lexiquest/exercise-engine/internal/store"
	"github.com/lexiquest/exercise-engine/internal/validator"
)

// NavigateAction selects a navigation operation on a running session.
type NavigateAction string

const (
	NavigateNext     NavigateAction = "next"
	NavigatePrevious NavigateAction = "previous"
	NavigateSkip     NavigateAction = "skip"
	NavigateIndex    NavigateAction = "index"
)

type NavigateRequest struct {
	Action NavigateAction `json:"action" validate:"required,oneof=next previous skip index"`
	Index  int            `json:"index"`
}

// SessionView is what the host UI needs to render the current state.
type SessionView struct {
	ExerciseID     string               `json:"exercise_id"`
	Context        string               `json:"context"`
	Status         models.SessionStatus `json:"status"`
	CurrentIndex   int                  `json:"current_index"`
	TotalQuestions int                  `json:"total_questions"`
	Question       *models.Question     `json:"question,omitempty"`
	Progress       models.Progress      `json:"progress"`
	Resumed        bool                 `json:"resumed"`
}

// FinishResponse pairs the final summary with the data the caller needs for
// its own pass/fail decision.
type FinishResponse struct {
	Results       models.ExerciseResults `json:"results"`
	PassThreshold int                    `json:"pass_threshold"`
	Reward        models.Reward          `json:"reward"`
}

// SessionService owns the live controllers, one per (exercise, context)
// pair, and wires them to content, persistence and the results pipeline.
type SessionService interface {
	Start(ctx context.Context, exerciseID, sessionCtx string) (*SessionView, error)
	View(ctx context.Context, exerciseID, sessionCtx string) (*SessionView, error)
	SubmitAnswer(ctx context.Context, exerciseID, sessionCtx, questionID string, value models.AnswerValue) (*models.GradeResult, error)
	Navigate(ctx context.Context, exerciseID, sessionCtx string, req NavigateRequest) (*SessionView, error)
	Finish(ctx context.Context, exerciseID, sessionCtx string) (*FinishResponse, error)
	Abandon(ctx context.Context, exerciseID, sessionCtx string) error
}

type sessionService struct {
	content   content.ExerciseRepository
	snapshots *store.SnapshotStore
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session.Controller
	pending  map[string]*pendingSave
}

// pendingSave queues background writes for one session. A single drain
// goroutine per key applies snapshots in submission order; a newer snapshot
// arriving while one is in flight replaces the queued one, so a backlog
// collapses to the latest state instead of replaying stale writes.
type pendingSave struct {
	next    *models.SessionSnapshot
	running bool
}

func NewSessionService(
	contentRepo content.ExerciseRepository,
	snapshots *store.SnapshotStore,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		content:   contentRepo,
		snapshots: snapshots,
		publisher: publisher,
		validator: v,
		logger:    logger,
		sessions:  make(map[string]*session.Controller),
		pending:   make(map[string]*pendingSave),
	}
}

// Start begins or resumes a session. An already-running controller for the
// same (exercise, context) is returned as-is; otherwise a persisted snapshot
// is restored when one with the current schema exists.
func (s *sessionService) Start(ctx context.Context, exerciseID, sessionCtx string) (*SessionView, error) {
	s.logger.Info("starting session",
		"exercise_id", exerciseID,
		"context", sessionCtx)

	key := store.Key(exerciseID, sessionCtx)

	s.mu.Lock()
	if controller, ok := s.sessions[key]; ok && controller.Status() == models.SessionInProgress {
		s.mu.Unlock()
		s.logger.Info("resuming live session", "exercise_id", exerciseID, "context", sessionCtx)
		return s.buildView(controller, exerciseID, sessionCtx, true), nil
	}
	s.mu.Unlock()

	exercise, err := s.content.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, content.ErrExerciseNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	if err := s.validator.ValidateExercise(exercise); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExercise, err)
	}

	controller := session.NewController(s.logger)
	resumed := false
	if snap := s.snapshots.Load(ctx, exerciseID, sessionCtx); snap != nil {
		if err := controller.Restore(exercise, *snap); err != nil {
			s.logger.Warn("snapshot restore failed, starting fresh",
				"exercise_id", exerciseID, "context", sessionCtx, "error", err)
			controller.Start(exercise)
		} else {
			resumed = true
		}
	} else {
		controller.Start(exercise)
	}

	s.mu.Lock()
	s.sessions[key] = controller
	s.mu.Unlock()
	s.snapshots.Save(ctx, exerciseID, sessionCtx, controller.Snapshot())

	return s.buildView(controller, exerciseID, sessionCtx, resumed), nil
}

func (s *sessionService) View(ctx context.Context, exerciseID, sessionCtx string) (*SessionView, error) {
	controller, err := s.controllerFor(exerciseID, sessionCtx)
	if err != nil {
		return nil, err
	}
	return s.buildView(controller, exerciseID, sessionCtx, false), nil
}

// SubmitAnswer grades the value and persists the updated snapshot in the
// background. Session progression never blocks on the save completing.
func (s *sessionService) SubmitAnswer(ctx context.Context, exerciseID, sessionCtx, questionID string, value models.AnswerValue) (*models.GradeResult, error) {
	controller, err := s.controllerFor(exerciseID, sessionCtx)
	if err != nil {
		return nil, err
	}

	result := controller.SubmitAnswer(questionID, value)
	s.saveAsync(exerciseID, sessionCtx, controller.Snapshot())

	s.logger.Info("answer graded",
		"exercise_id", exerciseID,
		"context", sessionCtx,
		"question_id", questionID,
		"is_correct", result.IsCorrect,
		"score", result.Score)
	return &result, nil
}

func (s *sessionService) Navigate(ctx context.Context, exerciseID, sessionCtx string, req NavigateRequest) (*SessionView, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	controller, err := s.controllerFor(exerciseID, sessionCtx)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case NavigateNext:
		controller.GoToNext()
	case NavigatePrevious:
		controller.GoToPrevious()
	case NavigateSkip:
		controller.Skip()
	case NavigateIndex:
		controller.GoToIndex(req.Index)
	}
	s.saveAsync(exerciseID, sessionCtx, controller.Snapshot())

	return s.buildView(controller, exerciseID, sessionCtx, false), nil
}

// Finish ends the session, publishes the results for the remote-submission
// consumer and clears the persisted snapshot. A publish failure is logged
// and does not withhold results from the caller.
func (s *sessionService) Finish(ctx context.Context, exerciseID, sessionCtx string) (*FinishResponse, error) {
	controller, err := s.controllerFor(exerciseID, sessionCtx)
	if err != nil {
		return nil, err
	}
	if controller.Status() != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	controller.End()
	results := session.CalculateResults(controller)
	exercise := controller.Exercise()
	threshold := session.PassThreshold(exercise)

	event := events.NewSessionEvent(events.EventSessionCompleted, events.SessionCompletedEvent{
		ExerciseID:    exerciseID,
		Context:       sessionCtx,
		Results:       results,
		PassThreshold: threshold,
		Reward:        exercise.Reward,
		CompletedAt:   time.Now(),
	})
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish completion event",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
	}

	s.snapshots.Clear(ctx, exerciseID, sessionCtx)
	s.removeSession(exerciseID, sessionCtx)

	s.logger.Info("session finished",
		"exercise_id", exerciseID,
		"context", sessionCtx,
		"score", results.Score,
		"accuracy", results.Accuracy)

	return &FinishResponse{
		Results:       results,
		PassThreshold: threshold,
		Reward:        exercise.Reward,
	}, nil
}

// Abandon discards the session and its snapshot.
func (s *sessionService) Abandon(ctx context.Context, exerciseID, sessionCtx string) error {
	controller, err := s.controllerFor(exerciseID, sessionCtx)
	if err != nil {
		return err
	}
	controller.Reset()

	event := events.NewSessionEvent(events.EventSessionAbandoned, events.SessionAbandonedEvent{
		ExerciseID:  exerciseID,
		Context:     sessionCtx,
		AbandonedAt: time.Now(),
	})
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish abandonment event",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
	}

	s.snapshots.Clear(ctx, exerciseID, sessionCtx)
	s.removeSession(exerciseID, sessionCtx)
	return nil
}

func (s *sessionService) controllerFor(exerciseID, sessionCtx string) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	controller, ok := s.sessions[store.Key(exerciseID, sessionCtx)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return controller, nil
}

func (s *sessionService) removeSession(exerciseID, sessionCtx string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := store.Key(exerciseID, sessionCtx)
	delete(s.sessions, key)
	delete(s.pending, key)
}

func (s *sessionService) saveAsync(exerciseID, sessionCtx string, snap models.SessionSnapshot) {
	key := store.Key(exerciseID, sessionCtx)

	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok {
		p = &pendingSave{}
		s.pending[key] = p
	}
	p.next = &snap
	if p.running {
		s.mu.Unlock()
		return
	}
	p.running = true
	s.mu.Unlock()

	go s.drainSaves(exerciseID, sessionCtx, p)
}

func (s *sessionService) drainSaves(exerciseID, sessionCtx string, p *pendingSave) {
	for {
		s.mu.Lock()
		snap := p.next
		p.next = nil
		if snap == nil {
			p.running = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s.snapshots.Save(saveCtx, exerciseID, sessionCtx, *snap)
		cancel()
	}
}

func (s *sessionService) buildView(controller *session.Controller, exerciseID, sessionCtx string, resumed bool) *SessionView {
	view := &SessionView{
		ExerciseID:   exerciseID,
		Context:      sessionCtx,
		Status:       controller.Status(),
		CurrentIndex: controller.CurrentIndex(),
		Question:     controller.CurrentQuestion(),
		Resumed:      resumed,
	}
	if exercise := controller.Exercise(); exercise != nil {
		view.TotalQuestions = len(exercise.Questions)
	}
	snap := controller.Snapshot()
	view.Progress = snap.Progress
	return view
}
