package grader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/normalize"
)

func matchingQuestion() *models.Question {
	return &models.Question{
		ID:   "q1",
		Type: models.WordMatching,
		Matching: &models.MatchingContent{
			Pairs: []models.MatchPair{
				{ID: "p1", Left: "dog", Right: "chó"},
				{ID: "p2", Left: "cat", Right: "mèo"},
				{ID: "p3", Left: "bird", Right: "chim"},
				{ID: "p4", Left: "fish", Right: "cá"},
			},
		},
	}
}

func TestGradeMatchingPairIDs(t *testing.T) {
	g := New(normalize.New("vi"))
	q := matchingQuestion()

	t.Run("all pairs matched", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairIDs: []string{"p1", "p2", "p3", "p4"}})
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 1.0, result.Score)
	})

	t.Run("two of four correct", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairIDs: []string{"p1", "p2", "x1", "x2"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.5, result.Score)
	})

	t.Run("complete match required for correctness", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairIDs: []string{"p1", "p2", "p3"}})
		assert.False(t, result.IsCorrect, "fraction below one is never correct")
		assert.Equal(t, 0.75, result.Score)
	})

	t.Run("duplicate ids count once", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairIDs: []string{"p1", "p1", "p1", "p1"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.25, result.Score)
	})
}

func TestGradeMatchingLegacyMap(t *testing.T) {
	g := New(normalize.New("vi"))
	q := matchingQuestion()

	t.Run("full legacy map", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairMap: map[string]string{
			"dog": "chó", "cat": "mèo", "bird": "chim", "fish": "cá",
		}})
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 1.0, result.Score)
	})

	t.Run("half wrong", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{PairMap: map[string]string{
			"dog": "chó", "cat": "mèo", "bird": "cá", "fish": "chim",
		}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.5, result.Score)
	})
}

func TestGradeSynonymsMatching(t *testing.T) {
	g := New(normalize.New("en"))
	q := &models.Question{
		ID:   "q1",
		Type: models.SynonymsMatching,
		Matching: &models.MatchingContent{
			Pairs: []models.MatchPair{
				{ID: "s1", Left: "big", Right: "large"},
				{ID: "s2", Left: "small", Right: "tiny"},
			},
		},
	}

	result := g.Grade(q, models.AnswerValue{PairIDs: []string{"s1", "s2"}})
	assert.True(t, result.IsCorrect)

	result = g.Grade(q, models.AnswerValue{PairIDs: []string{"s1"}})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0.5, result.Score)
}
