package validator

import (
	"errors"
	"fmt"

	"github.com/lexiquest/exercise-engine/internal/models"
)

var (
	ErrMissingContent    = errors.New("question content missing for variant")
	ErrAmbiguousContent  = errors.New("question carries content for more than one variant")
	ErrInvalidCorrectID  = errors.New("correct choice id is not among the options")
	ErrInvalidStepIndex  = errors.New("expected step index out of option range")
	ErrMissingSentence   = errors.New("translation question requires a canonical sentence")
	ErrDuplicateQuestion = errors.New("duplicate question id")
)

// validateExerciseContent enforces the tagged-union shape: exactly one
// content field populated, matching the declared variant, with internally
// consistent canonical answers. Content that fails here would otherwise
// surface as neutral grades at runtime.
func validateExerciseContent(exercise *models.Exercise) error {
	seen := make(map[string]bool, len(exercise.Questions))
	for i := range exercise.Questions {
		q := &exercise.Questions[i]
		if seen[q.ID] {
			return fmt.Errorf("question %q: %w", q.ID, ErrDuplicateQuestion)
		}
		seen[q.ID] = true

		if err := validateQuestionContent(q); err != nil {
			return fmt.Errorf("question %q: %w", q.ID, err)
		}
	}
	return nil
}

func validateQuestionContent(q *models.Question) error {
	populated := 0
	for _, present := range []bool{
		q.Choice != nil,
		q.Matching != nil,
		q.ChooseWords != nil,
		q.ErrorCorrection != nil,
		q.RolePlay != nil,
	} {
		if present {
			populated++
		}
	}
	if populated > 1 {
		return ErrAmbiguousContent
	}

	switch q.Type {
	case models.MultipleChoice, models.GrammarStructure, models.DialogueCompletion:
		if q.Choice == nil {
			return ErrMissingContent
		}
		for _, opt := range q.Choice.Options {
			if opt.ID == q.Choice.CorrectID {
				return nil
			}
		}
		return ErrInvalidCorrectID

	case models.WordMatching, models.SynonymsMatching:
		if q.Matching == nil || len(q.Matching.Pairs) == 0 {
			return ErrMissingContent
		}
		return nil

	case models.ChooseWords:
		if q.ChooseWords == nil || len(q.ChooseWords.Tokens) == 0 {
			return ErrMissingContent
		}
		if q.ChooseWords.Kind == models.Translation && q.ChooseWords.Sentence == "" {
			return ErrMissingSentence
		}
		return nil

	case models.ErrorCorrection:
		if q.ErrorCorrection == nil || q.ErrorCorrection.Corrected == "" {
			return ErrMissingContent
		}
		return nil

	case models.RolePlay:
		if q.RolePlay == nil || len(q.RolePlay.Steps) == 0 {
			return ErrMissingContent
		}
		for i, step := range q.RolePlay.Steps {
			if step.ExpectedIndex < 0 || step.ExpectedIndex >= len(step.Options) {
				return fmt.Errorf("step %d: %w", i, ErrInvalidStepIndex)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported question type %q", q.Type)
	}
}
