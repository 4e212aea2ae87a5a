package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiquest/exercise-engine/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		ExerciseID:    "ex1",
		SchemaVersion: models.CurrentSchemaVersion,
		Status:        models.SessionInProgress,
		StartedAt:     time.Now().Add(-time.Minute).Truncate(time.Millisecond).UTC(),
		CurrentIndex:  2,
		Answers: []models.AnswerRecord{
			{
				QuestionID:  "q1",
				Value:       models.AnswerValue{ChoiceID: "a"},
				Grade:       models.GradeResult{IsCorrect: true, Score: 1, Feedback: "Correct!"},
				TimeSpentMs: 1500,
				Timestamp:   time.Now().Truncate(time.Millisecond).UTC(),
			},
		},
		Progress:  models.Progress{CorrectAnswers: 1},
		SkipQueue: []int{1},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	saved := sampleSnapshot()
	s.Save(ctx, "ex1", "lesson-3", saved)

	loaded := s.Load(ctx, "ex1", "lesson-3")
	require.NotNil(t, loaded)
	assert.Equal(t, saved.ExerciseID, loaded.ExerciseID)
	assert.Equal(t, saved.Status, loaded.Status)
	assert.Equal(t, saved.CurrentIndex, loaded.CurrentIndex)
	assert.Equal(t, saved.Answers, loaded.Answers)
	assert.Equal(t, saved.Progress, loaded.Progress)
	assert.Equal(t, saved.SkipQueue, loaded.SkipQueue)
	assert.False(t, loaded.LastUpdatedAt.IsZero(), "save stamps LastUpdatedAt")
}

func TestLoadMissingReturnsNil(t *testing.T) {
	s := NewSnapshotStore(NewMemoryStore(), testLogger())
	assert.Nil(t, s.Load(context.Background(), "ex1", "nowhere"))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	s.Save(ctx, "ex1", "lesson-3", sampleSnapshot())
	require.NotNil(t, s.Load(ctx, "ex1", "lesson-3"))

	s.Clear(ctx, "ex1", "lesson-3")
	assert.Nil(t, s.Load(ctx, "ex1", "lesson-3"))
}

func TestContextsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	first := sampleSnapshot()
	first.CurrentIndex = 1
	second := sampleSnapshot()
	second.CurrentIndex = 2

	s.Save(ctx, "ex1", "lesson-a", first)
	s.Save(ctx, "ex1", "lesson-b", second)

	assert.Equal(t, 1, s.Load(ctx, "ex1", "lesson-a").CurrentIndex)
	assert.Equal(t, 2, s.Load(ctx, "ex1", "lesson-b").CurrentIndex)
}

func TestLoadDiscardsStaleSchema(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := NewSnapshotStore(kv, testLogger())

	// Write a snapshot with an older schema version directly.
	stale := []byte(`{"exercise_id":"ex1","schema_version":1,"status":"in_progress"}`)
	require.NoError(t, kv.Set(ctx, Key("ex1", "lesson-3"), stale))

	assert.Nil(t, s.Load(ctx, "ex1", "lesson-3"), "version skew forces a fresh session")
}

func TestLoadDiscardsCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := NewSnapshotStore(kv, testLogger())

	require.NoError(t, kv.Set(ctx, Key("ex1", "lesson-3"), []byte("{not json")))
	assert.Nil(t, s.Load(ctx, "ex1", "lesson-3"))
}

func TestSaveMergesPartialUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	s.Save(ctx, "ex1", "lesson-3", sampleSnapshot())

	// A partial update carrying only the cursor keeps everything else.
	s.Save(ctx, "ex1", "lesson-3", models.SessionSnapshot{CurrentIndex: 3})

	loaded := s.Load(ctx, "ex1", "lesson-3")
	require.NotNil(t, loaded)
	assert.Equal(t, 3, loaded.CurrentIndex)
	assert.Len(t, loaded.Answers, 1)
	assert.Equal(t, models.Progress{CorrectAnswers: 1}, loaded.Progress)
	assert.Equal(t, models.SessionInProgress, loaded.Status)
}

func TestSaveFullSnapshotKeepsZeroFields(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	s.Save(ctx, "ex1", "lesson-3", sampleSnapshot())

	// The learner navigates back to question 0 and the session resets its
	// skip queue. The follow-up full save must win over the stored index.
	back := sampleSnapshot()
	back.CurrentIndex = 0
	back.SkipQueue = nil
	s.Save(ctx, "ex1", "lesson-3", back)

	loaded := s.Load(ctx, "ex1", "lesson-3")
	require.NotNil(t, loaded)
	assert.Equal(t, 0, loaded.CurrentIndex)
	assert.Empty(t, loaded.SkipQueue)
	assert.Equal(t, back.Progress, loaded.Progress)
	assert.Equal(t, back.Answers, loaded.Answers)
}

func TestSaveFullSnapshotReplacesProgress(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryStore(), testLogger())

	s.Save(ctx, "ex1", "lesson-3", sampleSnapshot())

	fresh := models.SessionSnapshot{
		ExerciseID:    "ex1",
		SchemaVersion: models.CurrentSchemaVersion,
		Status:        models.SessionInProgress,
		StartedAt:     time.Now().Truncate(time.Millisecond).UTC(),
	}
	s.Save(ctx, "ex1", "lesson-3", fresh)

	loaded := s.Load(ctx, "ex1", "lesson-3")
	require.NotNil(t, loaded)
	assert.Equal(t, models.Progress{}, loaded.Progress, "a restarted session stores empty progress")
	assert.Empty(t, loaded.Answers)
	assert.Equal(t, 0, loaded.CurrentIndex)
}

// failingStore simulates a broken storage collaborator.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("storage down")
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("storage down")
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("storage down")
}

func TestStorageFailuresAreSoft(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore(failingStore{}, testLogger())

	// None of these may panic or surface an error.
	s.Save(ctx, "ex1", "lesson-3", sampleSnapshot())
	assert.Nil(t, s.Load(ctx, "ex1", "lesson-3"))
	s.Clear(ctx, "ex1", "lesson-3")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "session:ex1:lesson-3", Key("ex1", "lesson-3"))
}
