package services

import "errors"

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidExercise  = errors.New("exercise content failed validation")

	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session is not active")
)

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExerciseNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}
