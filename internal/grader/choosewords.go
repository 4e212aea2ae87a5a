package grader

import (
	"strings"

	"github.com/lexiquest/exercise-engine/internal/models"
)

// gradeChooseWords covers the three token-ordered subtypes. All of them
// score position-by-position after normalization and require matching
// lengths to be fully correct; translation additionally requires the joined
// sentence to equal the canonical one.
func (g *Grader) gradeChooseWords(content *models.ChooseWordsContent, value models.AnswerValue) models.GradeResult {
	if content == nil || len(content.Tokens) == 0 {
		return models.GradeResult{Feedback: FeedbackMissingContent}
	}

	canonical := g.norm.NormalizeTokens(content.Tokens)
	submitted := g.norm.NormalizeTokens(value.Tokens)

	matched := 0
	for i, token := range canonical {
		if i < len(submitted) && submitted[i] == token {
			matched++
		}
	}
	score := float64(matched) / float64(len(canonical))

	isCorrect := matched == len(canonical) && len(submitted) == len(canonical)
	if isCorrect && content.Kind == models.Translation && content.Sentence != "" {
		sentence := g.norm.Normalize(strings.Join(value.Tokens, " "))
		isCorrect = sentence == g.norm.Normalize(content.Sentence)
	}

	result := models.GradeResult{IsCorrect: isCorrect, Score: score, Feedback: FeedbackIncorrect}
	switch {
	case isCorrect:
		result.Feedback = FeedbackCorrect
	case matched > 0:
		result.Feedback = FeedbackPartial
	}
	return result
}
