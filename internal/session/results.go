package session

import (
	"math"
	"time"

	"github.com/lexiquest/exercise-engine/internal/models"
)

// DefaultPassThreshold applies when neither the exercise nor its level
// carries one. The engine only reports it; pass/fail comparison belongs to
// the caller.
const DefaultPassThreshold = 80

var levelThresholds = map[models.ExerciseLevel]int{
	models.LevelBeginner:     70,
	models.LevelIntermediate: 80,
	models.LevelAdvanced:     90,
}

// PassThreshold resolves the threshold to report alongside results:
// explicit per-exercise value, then the level table, then the default.
func PassThreshold(exercise *models.Exercise) int {
	if exercise == nil {
		return DefaultPassThreshold
	}
	if exercise.PassThreshold != nil {
		return *exercise.PassThreshold
	}
	if t, ok := levelThresholds[exercise.Level]; ok {
		return t
	}
	return DefaultPassThreshold
}

// CalculateResults derives the final summary from the controller's state.
// Score is against all questions, accuracy only against answered ones, with
// an explicit guard for a session ended before any answer.
func CalculateResults(c *Controller) models.ExerciseResults {
	total := 0
	if c.exercise != nil {
		total = len(c.exercise.Questions)
	}

	snap := c.snapshot
	answered := len(snap.Answers)
	correct := snap.Progress.CorrectAnswers

	results := models.ExerciseResults{
		CorrectAnswers:   correct,
		IncorrectAnswers: snap.Progress.IncorrectAnswers,
		TotalQuestions:   total,
	}
	if total > 0 {
		results.Score = int(math.Round(100 * float64(correct) / float64(total)))
	}
	if answered > 0 {
		results.Accuracy = int(math.Round(100 * float64(correct) / float64(answered)))
	}

	if !snap.StartedAt.IsZero() {
		end := c.endedAt
		if end.IsZero() {
			end = time.Now()
		}
		results.TimeSpent = int64(math.Floor(end.Sub(snap.StartedAt).Seconds()))
	}

	return results
}
