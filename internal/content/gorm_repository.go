package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lexiquest/exercise-engine/internal/models"
)

// ExerciseRecord is the storage shape for authored exercises. Question
// content is heterogeneous per variant, so the question list is stored as a
// single JSONB document rather than normalized tables.
type ExerciseRecord struct {
	ID            string         `gorm:"primaryKey;size:64"`
	Title         string         `gorm:"not null;size:200"`
	Description   string         `gorm:"type:text"`
	Level         string         `gorm:"size:20;index"`
	Locale        string         `gorm:"size:16"`
	Questions     datatypes.JSON `gorm:"type:jsonb;not null"`
	RewardXP      int
	RewardCoins   int
	PassThreshold *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ExerciseRecord) TableName() string {
	return "exercises"
}

type gormExerciseRepository struct {
	db *gorm.DB
}

func NewGormExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &gormExerciseRepository{db: db}
}

func (r *gormExerciseRepository) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	var record ExerciseRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return recordToExercise(&record)
}

func (r *gormExerciseRepository) ListByLevel(ctx context.Context, level models.ExerciseLevel) ([]*models.Exercise, error) {
	var records []ExerciseRecord
	query := r.db.WithContext(ctx).Order("id")
	if level != "" {
		query = query.Where("level = ?", string(level))
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	exercises := make([]*models.Exercise, 0, len(records))
	for i := range records {
		exercise, err := recordToExercise(&records[i])
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	return exercises, nil
}

func (r *gormExerciseRepository) Create(ctx context.Context, exercise *models.Exercise) error {
	record, err := exerciseToRecord(exercise)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func recordToExercise(record *ExerciseRecord) (*models.Exercise, error) {
	var questions []models.Question
	if err := json.Unmarshal(record.Questions, &questions); err != nil {
		return nil, fmt.Errorf("corrupt question content for exercise %s: %w", record.ID, err)
	}
	return &models.Exercise{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Level:       models.ExerciseLevel(record.Level),
		Locale:      record.Locale,
		Questions:   questions,
		Reward: models.Reward{
			XP:    record.RewardXP,
			Coins: record.RewardCoins,
		},
		PassThreshold: record.PassThreshold,
	}, nil
}

func exerciseToRecord(exercise *models.Exercise) (*ExerciseRecord, error) {
	questions, err := json.Marshal(exercise.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question content: %w", err)
	}
	return &ExerciseRecord{
		ID:            exercise.ID,
		Title:         exercise.Title,
		Description:   exercise.Description,
		Level:         string(exercise.Level),
		Locale:        exercise.Locale,
		Questions:     questions,
		RewardXP:      exercise.Reward.XP,
		RewardCoins:   exercise.Reward.Coins,
		PassThreshold: exercise.PassThreshold,
	}, nil
}
