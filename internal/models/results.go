package models

// ExerciseResults is the final summary handed to the remote-submission
// collaborator. Score and Accuracy are whole percentages; TimeSpent is in
// seconds. Pass/fail is decided by the caller, not here.
type ExerciseResults struct {
	Score            int   `json:"score"`
	Accuracy         int   `json:"accuracy"`
	CorrectAnswers   int   `json:"correct_answers"`
	IncorrectAnswers int   `json:"incorrect_answers"`
	TotalQuestions   int   `json:"total_questions"`
	TimeSpent        int64 `json:"time_spent"`
}
