package models

// AnswerValue is the single submission shape accepted at the grading
// boundary. Which fields are meaningful depends on the question variant:
// ChoiceID for the choice-based variants, PairIDs or PairMap for matching
// (PairMap is the legacy client shape), Tokens for choose-words, Text for
// error-correction and StepChoices for role-play.
type AnswerValue struct {
	ChoiceID    string            `json:"choice_id,omitempty"`
	PairIDs     []string          `json:"pair_ids,omitempty"`
	PairMap     map[string]string `json:"pair_map,omitempty"` // left -> right
	Tokens      []string          `json:"tokens,omitempty"`
	Text        string            `json:"text,omitempty"`
	StepChoices []int             `json:"step_choices,omitempty"`
}

// GradeResult is produced once per submitted answer. Score is always within
// [0,1]; IsCorrect is the variant's binary pass determination and is not
// derivable from Score alone (role-play passes above 0.5, matching only at 1).
type GradeResult struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}
