package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexiquest/exercise-engine/internal/models"
)

type EventType string

const (
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"
)

const (
	eventSource  = "exercise-engine"
	eventVersion = "1.0"
)

// SessionEvent is the envelope published to the results pipeline. The
// remote-submission consumer reports results, awards currency and persists
// completion state; none of that happens in this service.
type SessionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SessionCompletedEvent carries the final summary for one finished attempt.
type SessionCompletedEvent struct {
	ExerciseID    string                 `json:"exercise_id"`
	Context       string                 `json:"context"`
	Results       models.ExerciseResults `json:"results"`
	PassThreshold int                    `json:"pass_threshold"`
	Reward        models.Reward          `json:"reward"`
	CompletedAt   time.Time              `json:"completed_at"`
}

// SessionAbandonedEvent records an explicit abandonment.
type SessionAbandonedEvent struct {
	ExerciseID  string    `json:"exercise_id"`
	Context     string    `json:"context"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// NewSessionEvent wraps payload data in a fully stamped envelope.
func NewSessionEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now(),
		Data:      data,
	}
}
