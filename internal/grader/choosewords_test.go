package grader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/normalize"
)

func chooseWordsQuestion(kind models.ChooseWordsKind) *models.Question {
	return &models.Question{
		ID:   "q1",
		Type: models.ChooseWords,
		ChooseWords: &models.ChooseWordsContent{
			Kind:     kind,
			Tokens:   []string{"toi", "la", "sinh", "vien"},
			Sentence: "toi la sinh vien",
		},
	}
}

func TestGradeTranslation(t *testing.T) {
	g := New(normalize.New("vi"))
	q := chooseWordsQuestion(models.Translation)

	t.Run("diacritic variants match after normalization", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"Tôi", "là", "sinh", "viên"}})
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 1.0, result.Score)
	})

	t.Run("partial score without full correctness", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"toi", "la", "giao", "vien"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.75, result.Score)
	})

	t.Run("length mismatch is never fully correct", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"toi", "la", "sinh"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.75, result.Score)
	})
}

func TestGradeFillInBlanks(t *testing.T) {
	g := New(normalize.New("en"))
	q := &models.Question{
		ID:   "q1",
		Type: models.ChooseWords,
		ChooseWords: &models.ChooseWordsContent{
			Kind:   models.FillInBlanks,
			Tokens: []string{"goes", "went"},
		},
	}

	result := g.Grade(q, models.AnswerValue{Tokens: []string{"goes", "went"}})
	assert.True(t, result.IsCorrect)

	result = g.Grade(q, models.AnswerValue{Tokens: []string{"goes", "gone"}})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0.5, result.Score)
}

func TestGradeSentenceScramble(t *testing.T) {
	g := New(normalize.New("en"))
	q := &models.Question{
		ID:   "q1",
		Type: models.ChooseWords,
		ChooseWords: &models.ChooseWordsContent{
			Kind:   models.SentenceScramble,
			Tokens: []string{"i", "like", "green", "tea"},
		},
	}

	t.Run("correct order", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"I", "like", "green", "tea"}})
		assert.True(t, result.IsCorrect)
	})

	t.Run("positions score individually", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"green", "like", "i", "tea"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.5, result.Score)
	})

	t.Run("extra tokens block correctness", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{Tokens: []string{"i", "like", "green", "tea", "now"}})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 1.0, result.Score)
	})

	t.Run("empty submission", func(t *testing.T) {
		result := g.Grade(q, models.AnswerValue{})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 0.0, result.Score)
	})
}
