package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lexiquest/exercise-engine/internal/models"
)

// Validator combines struct-tag validation with per-variant exercise
// content checks.
type Validator struct {
	structValidator *validator.Validate
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateExercise performs complete validation of authored content: struct
// tags first, then the variant-specific content rules.
func (v *Validator) ValidateExercise(exercise *models.Exercise) error {
	if err := v.structValidator.Struct(exercise); err != nil {
		return err
	}
	return validateExerciseContent(exercise)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("questiontype", validateQuestionType)

	// Report json field names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, validType := range models.AllQuestionTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
