package content

import (
	"context"
	"errors"

	"github.com/lexiquest/exercise-engine/internal/models"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseRepository supplies read-only authored exercises to the engine.
// The engine never mutates what it loads.
type ExerciseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Exercise, error)
	ListByLevel(ctx context.Context, level models.ExerciseLevel) ([]*models.Exercise, error)
	Create(ctx context.Context, exercise *models.Exercise) error
}
