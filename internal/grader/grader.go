package grader

import (
	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/normalize"
)

// Feedback strings surfaced to the UI layer.
const (
	FeedbackCorrect        = "Correct!"
	FeedbackPartial        = "Almost there"
	FeedbackIncorrect      = "Incorrect"
	FeedbackUnknownType    = "Unknown question type"
	FeedbackMissingContent = "Question content missing"
)

// Grader scores a submitted answer against a question's canonical answer.
// It is stateless and safe to share; all text comparison goes through the
// normalizer so both sides are canonicalized identically.
type Grader struct {
	norm *normalize.Normalizer
}

func New(norm *normalize.Normalizer) *Grader {
	return &Grader{norm: norm}
}

// Grade dispatches on the question variant. It never panics and never
// returns a score outside [0,1]; an unrecognized variant grades as a neutral
// incorrect result.
func (g *Grader) Grade(q *models.Question, value models.AnswerValue) models.GradeResult {
	switch q.Type {
	case models.MultipleChoice, models.GrammarStructure, models.DialogueCompletion:
		return g.gradeChoice(q.Choice, value)
	case models.WordMatching, models.SynonymsMatching:
		return g.gradeMatching(q.Matching, value)
	case models.ChooseWords:
		return g.gradeChooseWords(q.ChooseWords, value)
	case models.ErrorCorrection:
		return g.gradeErrorCorrection(q.ErrorCorrection, value)
	case models.RolePlay:
		return g.gradeRolePlay(q.RolePlay, value)
	default:
		return models.GradeResult{Feedback: FeedbackUnknownType}
	}
}

func (g *Grader) gradeChoice(content *models.ChoiceContent, value models.AnswerValue) models.GradeResult {
	if content == nil {
		return models.GradeResult{Feedback: FeedbackMissingContent}
	}
	if value.ChoiceID == content.CorrectID {
		return models.GradeResult{IsCorrect: true, Score: 1, Feedback: FeedbackCorrect}
	}
	return models.GradeResult{Feedback: FeedbackIncorrect}
}

func (g *Grader) gradeErrorCorrection(content *models.ErrorCorrectionContent, value models.AnswerValue) models.GradeResult {
	if content == nil {
		return models.GradeResult{Feedback: FeedbackMissingContent}
	}
	if g.norm.Equal(value.Text, content.Corrected) {
		return models.GradeResult{IsCorrect: true, Score: 1, Feedback: FeedbackCorrect}
	}
	return models.GradeResult{Feedback: FeedbackIncorrect}
}

func (g *Grader) gradeRolePlay(content *models.RolePlayContent, value models.AnswerValue) models.GradeResult {
	if content == nil || len(content.Steps) == 0 {
		return models.GradeResult{Feedback: FeedbackMissingContent}
	}

	correct := 0
	for i, step := range content.Steps {
		if i < len(value.StepChoices) && value.StepChoices[i] == step.ExpectedIndex {
			correct++
		}
	}

	accuracy := float64(correct) / float64(len(content.Steps))
	result := models.GradeResult{Score: accuracy, Feedback: FeedbackIncorrect}
	// Role-play passes on majority step accuracy, not a full match.
	if accuracy > 0.5 {
		result.IsCorrect = true
		result.Feedback = FeedbackCorrect
	} else if accuracy > 0 {
		result.Feedback = FeedbackPartial
	}
	return result
}
