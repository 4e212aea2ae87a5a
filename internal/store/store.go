package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexiquest/exercise-engine/internal/models"
)

// ErrNotFound is returned by KeyValueStore implementations on a missing key.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the durable storage collaborator. Failure modes are
// opaque to the engine; SnapshotStore treats every error as a soft miss.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SnapshotStore persists session snapshots for resumability. In-memory
// session state stays the source of truth: a lost write costs resumability,
// never the running session, so nothing here returns an error to the caller.
type SnapshotStore struct {
	kv     KeyValueStore
	logger *slog.Logger
}

func NewSnapshotStore(kv KeyValueStore, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{kv: kv, logger: logger}
}

// Key builds the composite storage key. Two different lesson contexts for
// the same exercise never collide.
func Key(exerciseID, sessionCtx string) string {
	return fmt.Sprintf("session:%s:%s", exerciseID, sessionCtx)
}

// Save merge-upserts the snapshot under (exerciseID, sessionCtx). A snapshot
// with its Status set is a full save and replaces the stored state; a
// status-less snapshot is a partial update whose zero-valued fields keep
// whatever an existing snapshot holds. LastUpdatedAt is always stamped.
func (s *SnapshotStore) Save(ctx context.Context, exerciseID, sessionCtx string, snap models.SessionSnapshot) {
	merged := snap
	if existing := s.Load(ctx, exerciseID, sessionCtx); existing != nil {
		merged = mergeSnapshot(*existing, snap)
	}
	merged.ExerciseID = exerciseID
	merged.SchemaVersion = models.CurrentSchemaVersion
	merged.LastUpdatedAt = time.Now()
	if merged.Status == "" {
		merged.Status = models.SessionInProgress
	}

	data, err := json.Marshal(merged)
	if err != nil {
		s.logger.Error("failed to marshal session snapshot",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
		return
	}
	if err := s.kv.Set(ctx, Key(exerciseID, sessionCtx), data); err != nil {
		s.logger.Error("failed to save session snapshot",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
	}
}

// Load returns the stored snapshot, or nil when it is absent, unreadable or
// written by a different schema version. Nil always means "start fresh".
func (s *SnapshotStore) Load(ctx context.Context, exerciseID, sessionCtx string) *models.SessionSnapshot {
	data, err := s.kv.Get(ctx, Key(exerciseID, sessionCtx))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to load session snapshot",
				"exercise_id", exerciseID, "context", sessionCtx, "error", err)
		}
		return nil
	}

	var snap models.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("discarding corrupt session snapshot",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
		return nil
	}
	if snap.SchemaVersion != models.CurrentSchemaVersion {
		s.logger.Info("discarding session snapshot with stale schema",
			"exercise_id", exerciseID,
			"context", sessionCtx,
			"snapshot_version", snap.SchemaVersion,
			"current_version", models.CurrentSchemaVersion)
		return nil
	}
	return &snap
}

// Clear removes the snapshot. Failures are logged and swallowed.
func (s *SnapshotStore) Clear(ctx context.Context, exerciseID, sessionCtx string) {
	if err := s.kv.Delete(ctx, Key(exerciseID, sessionCtx)); err != nil {
		s.logger.Warn("failed to clear session snapshot",
			"exercise_id", exerciseID, "context", sessionCtx, "error", err)
	}
}

// mergeSnapshot folds an update into the stored snapshot. An update with its
// Status set is a full save and its fields are taken verbatim: index 0, an
// empty skip queue and zeroed progress are real state after the learner
// navigates back to the first question, not omissions. Only a status-less
// update is partial, keeping stored values for zero-valued fields.
func mergeSnapshot(existing, update models.SessionSnapshot) models.SessionSnapshot {
	if update.Status != "" {
		merged := update
		if merged.StartedAt.IsZero() {
			merged.StartedAt = existing.StartedAt
		}
		return merged
	}

	merged := existing
	if !update.StartedAt.IsZero() {
		merged.StartedAt = update.StartedAt
	}
	if update.CurrentIndex != 0 {
		merged.CurrentIndex = update.CurrentIndex
	}
	if update.Answers != nil {
		merged.Answers = update.Answers
	}
	if update.Progress != (models.Progress{}) {
		merged.Progress = update.Progress
	}
	if update.SkipQueue != nil {
		merged.SkipQueue = update.SkipQueue
	}
	return merged
}
