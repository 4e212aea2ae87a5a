package session

import (
	"log/slog"
	"time"

	"github.com/lexiquest/exercise-engine/internal/grader"
	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/normalize"
)

// Neutral feedback for late or malformed calls. The controller never panics
// on them; the host may call into a torn-down session during UI transitions.
const (
	FeedbackNoExercise       = "No exercise loaded"
	FeedbackQuestionNotFound = "Question not found"
)

// Controller is the in-memory state machine for one learner's attempt:
// Uninitialized -> InProgress -> Completed, with Reset back to
// Uninitialized. One instance per active attempt; it is not safe for
// concurrent use and is not meant to be shared.
type Controller struct {
	logger *slog.Logger

	exercise *models.Exercise
	grader   *grader.Grader
	snapshot models.SessionSnapshot

	questionStartedAt time.Time
	endedAt           time.Time
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		logger:   logger,
		snapshot: models.SessionSnapshot{Status: models.SessionUninitialized, SchemaVersion: models.CurrentSchemaVersion},
	}
}

// Start initializes a fresh session over the exercise and moves the
// controller to InProgress. Calling Start on a running controller restarts
// it from scratch.
func (c *Controller) Start(exercise *models.Exercise) {
	now := time.Now()
	c.exercise = exercise
	c.grader = grader.New(normalize.New(exercise.Locale))
	c.snapshot = models.SessionSnapshot{
		ExerciseID:    exercise.ID,
		SchemaVersion: models.CurrentSchemaVersion,
		Status:        models.SessionInProgress,
		StartedAt:     now,
		LastUpdatedAt: now,
	}
	c.questionStartedAt = now
	c.endedAt = time.Time{}

	c.logger.Info("session started",
		"exercise_id", exercise.ID,
		"questions", len(exercise.Questions))
}

// Restore rebuilds an InProgress session from a persisted snapshot. The
// snapshot must belong to the exercise; version gating happens in the store
// layer before it gets here.
func (c *Controller) Restore(exercise *models.Exercise, snap models.SessionSnapshot) error {
	if snap.ExerciseID != exercise.ID {
		return ErrSnapshotMismatch
	}
	c.exercise = exercise
	c.grader = grader.New(normalize.New(exercise.Locale))
	c.snapshot = snap
	c.snapshot.Status = models.SessionInProgress
	if c.snapshot.CurrentIndex < 0 || c.snapshot.CurrentIndex >= len(exercise.Questions) {
		c.snapshot.CurrentIndex = 0
	}
	c.questionStartedAt = time.Now()
	c.endedAt = time.Time{}

	c.logger.Info("session restored",
		"exercise_id", exercise.ID,
		"current_index", c.snapshot.CurrentIndex,
		"answered", len(c.snapshot.Answers))
	return nil
}

// SubmitAnswer grades the value against the question and records it.
// Resubmitting a question replaces its previous record: the old grade's
// contribution is subtracted from the progress counters first, so every
// question is counted exactly once.
func (c *Controller) SubmitAnswer(questionID string, value models.AnswerValue) models.GradeResult {
	if c.exercise == nil || c.snapshot.Status != models.SessionInProgress {
		return models.GradeResult{Feedback: FeedbackNoExercise}
	}

	question := c.exercise.QuestionByID(questionID)
	if question == nil {
		c.logger.Warn("answer submitted for unknown question",
			"exercise_id", c.exercise.ID,
			"question_id", questionID)
		return models.GradeResult{Feedback: FeedbackQuestionNotFound}
	}

	now := time.Now()
	result := c.grader.Grade(question, value)
	record := models.AnswerRecord{
		QuestionID:  questionID,
		Value:       value,
		Grade:       result,
		TimeSpentMs: now.Sub(c.questionStartedAt).Milliseconds(),
		Timestamp:   now,
	}

	if prev := c.snapshot.AnswerFor(questionID); prev != nil {
		c.subtractProgress(prev.Grade)
		*prev = record
	} else {
		c.snapshot.Answers = append(c.snapshot.Answers, record)
	}

	if result.IsCorrect {
		c.snapshot.Progress.CorrectAnswers++
	} else {
		c.snapshot.Progress.IncorrectAnswers++
	}
	c.snapshot.LastUpdatedAt = now

	return result
}

func (c *Controller) subtractProgress(grade models.GradeResult) {
	if grade.IsCorrect {
		c.snapshot.Progress.CorrectAnswers--
	} else {
		c.snapshot.Progress.IncorrectAnswers--
	}
}

// GoToNext advances to the next question, if any.
func (c *Controller) GoToNext() {
	c.GoToIndex(c.snapshot.CurrentIndex + 1)
}

// GoToPrevious moves back one question, if possible.
func (c *Controller) GoToPrevious() {
	c.GoToIndex(c.snapshot.CurrentIndex - 1)
}

// GoToIndex moves to question i. Out-of-range requests are silent no-ops so
// stale UI events cannot crash or corrupt the session. Any move resets the
// per-question timer.
func (c *Controller) GoToIndex(i int) {
	if c.exercise == nil || c.snapshot.Status != models.SessionInProgress {
		return
	}
	if i < 0 || i >= len(c.exercise.Questions) {
		return
	}
	c.snapshot.CurrentIndex = i
	c.snapshot.LastUpdatedAt = time.Now()
	c.questionStartedAt = c.snapshot.LastUpdatedAt
}

// Skip queues the current question for a later pass and advances.
func (c *Controller) Skip() {
	if c.exercise == nil || c.snapshot.Status != models.SessionInProgress {
		return
	}
	c.snapshot.SkipQueue = append(c.snapshot.SkipQueue, c.snapshot.CurrentIndex)
	c.GoToNext()
}

// End marks the session Completed and freezes its timers. Completed is
// terminal for this instance; only Reset reuses it.
func (c *Controller) End() {
	if c.snapshot.Status != models.SessionInProgress {
		return
	}
	c.endedAt = time.Now()
	c.snapshot.Status = models.SessionCompleted
	c.snapshot.LastUpdatedAt = c.endedAt

	c.logger.Info("session completed",
		"exercise_id", c.snapshot.ExerciseID,
		"correct", c.snapshot.Progress.CorrectAnswers,
		"incorrect", c.snapshot.Progress.IncorrectAnswers)
}

// Reset discards all state and returns the controller to Uninitialized.
func (c *Controller) Reset() {
	c.exercise = nil
	c.grader = nil
	c.snapshot = models.SessionSnapshot{Status: models.SessionUninitialized, SchemaVersion: models.CurrentSchemaVersion}
	c.questionStartedAt = time.Time{}
	c.endedAt = time.Time{}
}

// Status returns the current lifecycle state.
func (c *Controller) Status() models.SessionStatus {
	return c.snapshot.Status
}

// CurrentIndex returns the index of the question the learner is on.
func (c *Controller) CurrentIndex() int {
	return c.snapshot.CurrentIndex
}

// CurrentQuestion returns the question at the current index, or nil when no
// exercise is loaded.
func (c *Controller) CurrentQuestion() *models.Question {
	if c.exercise == nil || c.snapshot.CurrentIndex >= len(c.exercise.Questions) {
		return nil
	}
	return &c.exercise.Questions[c.snapshot.CurrentIndex]
}

// Exercise returns the loaded exercise, or nil.
func (c *Controller) Exercise() *models.Exercise {
	return c.exercise
}

// Snapshot returns a deep copy of the session state for persistence.
func (c *Controller) Snapshot() models.SessionSnapshot {
	snap := c.snapshot
	snap.Answers = append([]models.AnswerRecord(nil), c.snapshot.Answers...)
	snap.SkipQueue = append([]int(nil), c.snapshot.SkipQueue...)
	return snap
}
