package session

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiquest/exercise-engine/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func multipleChoiceExercise() *models.Exercise {
	question := func(id, correct string) models.Question {
		return models.Question{
			ID:   id,
			Type: models.MultipleChoice,
			Choice: &models.ChoiceContent{
				Options: []models.ChoiceOption{
					{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "x"},
				},
				CorrectID: correct,
			},
		}
	}
	return &models.Exercise{
		ID:     "ex1",
		Title:  "Greetings",
		Locale: "vi",
		Questions: []models.Question{
			question("q1", "a"),
			question("q2", "b"),
			question("q3", "c"),
		},
	}
}

func TestControllerLifecycle(t *testing.T) {
	c := NewController(testLogger())
	assert.Equal(t, models.SessionUninitialized, c.Status())

	c.Start(multipleChoiceExercise())
	assert.Equal(t, models.SessionInProgress, c.Status())
	assert.Equal(t, 0, c.CurrentIndex())

	c.End()
	assert.Equal(t, models.SessionCompleted, c.Status())

	// Completed is terminal: answering and moving are no-ops.
	result := c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "a"})
	assert.False(t, result.IsCorrect)
	c.GoToNext()
	assert.Equal(t, 0, c.CurrentIndex())

	c.Reset()
	assert.Equal(t, models.SessionUninitialized, c.Status())
	assert.Nil(t, c.Exercise())
}

func TestSubmitAnswerProgress(t *testing.T) {
	c := NewController(testLogger())
	c.Start(multipleChoiceExercise())

	// Submissions a, x, c against canonical a, b, c.
	assert.True(t, c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "a"}).IsCorrect)
	assert.False(t, c.SubmitAnswer("q2", models.AnswerValue{ChoiceID: "x"}).IsCorrect)
	assert.True(t, c.SubmitAnswer("q3", models.AnswerValue{ChoiceID: "c"}).IsCorrect)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Progress.CorrectAnswers)
	assert.Equal(t, 1, snap.Progress.IncorrectAnswers)
	assert.Len(t, snap.Answers, 3)

	c.End()
	results := CalculateResults(c)
	assert.Equal(t, 67, results.Score)
	assert.Equal(t, 2, results.CorrectAnswers)
	assert.Equal(t, 1, results.IncorrectAnswers)
	assert.Equal(t, 3, results.TotalQuestions)
}

func TestIdempotentResubmission(t *testing.T) {
	c := NewController(testLogger())
	c.Start(multipleChoiceExercise())

	c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "x"})
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Progress.CorrectAnswers)
	assert.Equal(t, 1, snap.Progress.IncorrectAnswers)

	// Resubmission replaces the previous grade; the question counts once.
	c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "a"})
	snap = c.Snapshot()
	assert.Equal(t, 1, snap.Progress.CorrectAnswers)
	assert.Equal(t, 0, snap.Progress.IncorrectAnswers)
	assert.Len(t, snap.Answers, 1)

	// And again, independent of history.
	c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "b"})
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.Progress.CorrectAnswers)
	assert.Equal(t, 1, snap.Progress.IncorrectAnswers)
	assert.Len(t, snap.Answers, 1)

	record := snap.AnswerFor("q1")
	require.NotNil(t, record)
	assert.Equal(t, "b", record.Value.ChoiceID)
}

func TestSubmitAnswerNeutralGrades(t *testing.T) {
	c := NewController(testLogger())

	result := c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "a"})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, FeedbackNoExercise, result.Feedback)

	c.Start(multipleChoiceExercise())
	result = c.SubmitAnswer("missing", models.AnswerValue{ChoiceID: "a"})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, FeedbackQuestionNotFound, result.Feedback)

	// A not-found grade must not touch the counters.
	snap := c.Snapshot()
	assert.Equal(t, models.Progress{}, snap.Progress)
}

func TestNavigationClamps(t *testing.T) {
	c := NewController(testLogger())
	c.Start(multipleChoiceExercise())

	c.GoToPrevious()
	assert.Equal(t, 0, c.CurrentIndex(), "below range is a no-op")

	c.GoToNext()
	assert.Equal(t, 1, c.CurrentIndex())

	c.GoToIndex(99)
	assert.Equal(t, 1, c.CurrentIndex(), "above range is a no-op")

	c.GoToIndex(2)
	assert.Equal(t, 2, c.CurrentIndex())
	c.GoToNext()
	assert.Equal(t, 2, c.CurrentIndex(), "stays on last question")

	c.GoToIndex(-1)
	assert.Equal(t, 2, c.CurrentIndex())
}

func TestSkipQueue(t *testing.T) {
	c := NewController(testLogger())
	c.Start(multipleChoiceExercise())

	c.Skip()
	assert.Equal(t, 1, c.CurrentIndex())
	c.Skip()
	assert.Equal(t, 2, c.CurrentIndex())

	snap := c.Snapshot()
	assert.Equal(t, []int{0, 1}, snap.SkipQueue)
}

func TestRestore(t *testing.T) {
	exercise := multipleChoiceExercise()

	c := NewController(testLogger())
	c.Start(exercise)
	c.SubmitAnswer("q1", models.AnswerValue{ChoiceID: "a"})
	c.GoToNext()
	snap := c.Snapshot()

	restored := NewController(testLogger())
	require.NoError(t, restored.Restore(exercise, snap))
	assert.Equal(t, models.SessionInProgress, restored.Status())
	assert.Equal(t, 1, restored.CurrentIndex())

	// Grading continues to work against the restored state.
	assert.True(t, restored.SubmitAnswer("q2", models.AnswerValue{ChoiceID: "b"}).IsCorrect)
	assert.Equal(t, 2, restored.Snapshot().Progress.CorrectAnswers)
}

func TestRestoreRejectsForeignSnapshot(t *testing.T) {
	c := NewController(testLogger())
	snap := models.SessionSnapshot{ExerciseID: "other"}
	err := c.Restore(multipleChoiceExercise(), snap)
	assert.ErrorIs(t, err, ErrSnapshotMismatch)
}

func TestCurrentQuestion(t *testing.T) {
	c := NewController(testLogger())
	assert.Nil(t, c.CurrentQuestion())

	c.Start(multipleChoiceExercise())
	q := c.CurrentQuestion()
	require.NotNil(t, q)
	assert.Equal(t, "q1", q.ID)
}
