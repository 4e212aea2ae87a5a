package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/validator"
)

// Importer bulk-loads authored exercises from spreadsheets. Each row is one
// question; rows sharing an exercise_id are grouped into one exercise in row
// order. The content column holds the variant payload as JSON.
type Importer struct {
	repo      ExerciseRepository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewImporter(repo ExerciseRepository, v *validator.Validator, logger *slog.Logger) *Importer {
	return &Importer{repo: repo, validator: v, logger: logger}
}

type ImportResult struct {
	TotalRows     int           `json:"total_rows"`
	ProcessedRows int           `json:"processed_rows"`
	Exercises     int           `json:"exercises"`
	Errors        []ImportError `json:"errors,omitempty"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

var requiredColumns = []string{"exercise_id", "title", "question_id", "type"}

// ImportExercises reads the first sheet and stores every exercise whose rows
// all parse and validate. A failing row skips its whole exercise; the rest
// still import.
func (im *Importer) ImportExercises(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("spreadsheet needs a header row and at least one data row")
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	result := &ImportResult{TotalRows: len(rows) - 1}

	var order []string
	exercises := make(map[string]*models.Exercise)
	failed := make(map[string]bool)

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2
		result.ProcessedRows++

		exerciseID := cell(row, headerMap, "exercise_id")
		if exerciseID == "" {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Message: "empty exercise_id"})
			continue
		}

		exercise, ok := exercises[exerciseID]
		if !ok {
			exercise = im.parseExerciseRow(row, headerMap)
			exercise.ID = exerciseID
			exercises[exerciseID] = exercise
			order = append(order, exerciseID)
		}

		question, err := parseQuestionRow(row, headerMap)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Message: err.Error()})
			failed[exerciseID] = true
			continue
		}
		exercise.Questions = append(exercise.Questions, *question)
	}

	for _, id := range order {
		if failed[id] {
			continue
		}
		exercise := exercises[id]
		if err := im.validator.ValidateExercise(exercise); err != nil {
			result.Errors = append(result.Errors, ImportError{Row: 0, Message: fmt.Sprintf("exercise %s: %v", id, err)})
			continue
		}
		if err := im.repo.Create(ctx, exercise); err != nil {
			result.Errors = append(result.Errors, ImportError{Row: 0, Message: fmt.Sprintf("exercise %s: %v", id, err)})
			continue
		}
		result.Exercises++
	}

	im.logger.Info("exercise import completed",
		"total_rows", result.TotalRows,
		"exercises", result.Exercises,
		"errors", len(result.Errors))
	return result, nil
}

func (im *Importer) parseExerciseRow(row []string, headerMap map[string]int) *models.Exercise {
	exercise := &models.Exercise{
		Title:       cell(row, headerMap, "title"),
		Description: cell(row, headerMap, "description"),
		Level:       models.ExerciseLevel(cell(row, headerMap, "level")),
		Locale:      cell(row, headerMap, "locale"),
	}
	if xp, err := strconv.Atoi(cell(row, headerMap, "reward_xp")); err == nil {
		exercise.Reward.XP = xp
	}
	if coins, err := strconv.Atoi(cell(row, headerMap, "reward_coins")); err == nil {
		exercise.Reward.Coins = coins
	}
	if threshold, err := strconv.Atoi(cell(row, headerMap, "pass_threshold")); err == nil {
		exercise.PassThreshold = &threshold
	}
	return exercise
}

func parseQuestionRow(row []string, headerMap map[string]int) (*models.Question, error) {
	question := &models.Question{
		ID:     cell(row, headerMap, "question_id"),
		Type:   models.QuestionType(cell(row, headerMap, "type")),
		Prompt: cell(row, headerMap, "prompt"),
	}
	if question.ID == "" {
		return nil, fmt.Errorf("empty question_id")
	}

	content := cell(row, headerMap, "content")
	if content == "" {
		return nil, fmt.Errorf("empty content for question %s", question.ID)
	}

	var dest interface{}
	switch question.Type {
	case models.MultipleChoice, models.GrammarStructure, models.DialogueCompletion:
		question.Choice = &models.ChoiceContent{}
		dest = question.Choice
	case models.WordMatching, models.SynonymsMatching:
		question.Matching = &models.MatchingContent{}
		dest = question.Matching
	case models.ChooseWords:
		question.ChooseWords = &models.ChooseWordsContent{}
		dest = question.ChooseWords
	case models.ErrorCorrection:
		question.ErrorCorrection = &models.ErrorCorrectionContent{}
		dest = question.ErrorCorrection
	case models.RolePlay:
		question.RolePlay = &models.RolePlayContent{}
		dest = question.RolePlay
	default:
		return nil, fmt.Errorf("unsupported question type %q", question.Type)
	}

	if err := json.Unmarshal([]byte(content), dest); err != nil {
		return nil, fmt.Errorf("invalid content JSON for question %s: %v", question.ID, err)
	}
	return question, nil
}

func cell(row []string, headerMap map[string]int, name string) string {
	i, ok := headerMap[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
