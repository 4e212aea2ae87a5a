package models

import "time"

// CurrentSchemaVersion gates snapshot restores. Any incompatible change to
// SessionSnapshot or the types it embeds must bump this so older snapshots
// are discarded instead of misread.
const CurrentSchemaVersion = 2

type SessionStatus string

const (
	SessionUninitialized SessionStatus = "uninitialized"
	SessionInProgress    SessionStatus = "in_progress"
	SessionCompleted     SessionStatus = "completed"
)

// SessionSnapshot is the serializable record of one learner's attempt. It is
// the only on-disk contract the engine owns.
type SessionSnapshot struct {
	ExerciseID    string         `json:"exercise_id"`
	SchemaVersion int            `json:"schema_version"`
	Status        SessionStatus  `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	LastUpdatedAt time.Time      `json:"last_updated_at"`
	CurrentIndex  int            `json:"current_index"`
	Answers       []AnswerRecord `json:"answers"`
	Progress      Progress       `json:"progress"`
	SkipQueue     []int          `json:"skip_queue,omitempty"`
}

// AnswerRecord holds the current answer for one question. A session keeps at
// most one record per question id; resubmission replaces the record.
type AnswerRecord struct {
	QuestionID  string      `json:"question_id"`
	Value       AnswerValue `json:"value"`
	Grade       GradeResult `json:"grade"`
	TimeSpentMs int64       `json:"time_spent_ms"`
	Timestamp   time.Time   `json:"timestamp"`
}

type Progress struct {
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
}

// AnswerFor returns the record for the question id, or nil if unanswered.
func (s *SessionSnapshot) AnswerFor(questionID string) *AnswerRecord {
	for i := range s.Answers {
		if s.Answers[i].QuestionID == questionID {
			return &s.Answers[i]
		}
	}
	return nil
}
