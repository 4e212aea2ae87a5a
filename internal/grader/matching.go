package grader

import "github.com/lexiquest/exercise-engine/internal/models"

// submittedMatches flattens the two accepted matching shapes into a single
// count of (submissions, correct submissions). The legacy map shape pairs a
// left value with a right value directly; the current shape references
// canonical pair ids. Shape detection lives only here.
func submittedMatches(content *models.MatchingContent, value models.AnswerValue) (submitted, correct int) {
	if len(value.PairIDs) > 0 {
		valid := make(map[string]bool, len(content.Pairs))
		for _, p := range content.Pairs {
			valid[p.ID] = true
		}
		seen := make(map[string]bool, len(value.PairIDs))
		for _, id := range value.PairIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			submitted++
			if valid[id] {
				correct++
			}
		}
		return submitted, correct
	}

	rightFor := make(map[string]string, len(content.Pairs))
	for _, p := range content.Pairs {
		rightFor[p.Left] = p.Right
	}
	for left, right := range value.PairMap {
		submitted++
		if rightFor[left] == right {
			correct++
		}
	}
	return submitted, correct
}

func (g *Grader) gradeMatching(content *models.MatchingContent, value models.AnswerValue) models.GradeResult {
	if content == nil || len(content.Pairs) == 0 {
		return models.GradeResult{Feedback: FeedbackMissingContent}
	}

	submitted, correct := submittedMatches(content, value)
	score := float64(correct) / float64(len(content.Pairs))

	result := models.GradeResult{Score: score, Feedback: FeedbackIncorrect}
	// Fully correct only on a complete, fully matching submission. A
	// fractional score is still reported for partial matches.
	if correct == len(content.Pairs) && submitted == len(content.Pairs) {
		result.IsCorrect = true
		result.Feedback = FeedbackCorrect
	} else if correct > 0 {
		result.Feedback = FeedbackPartial
	}
	return result
}
