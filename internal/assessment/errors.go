package assessment

import "errors"

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrNotAQuiz          = errors.New("resource is not a quiz")
	ErrAttemptsExhausted = errors.New("no attempts remaining")
	ErrAttemptConflict   = errors.New("another attempt was recorded concurrently")
	ErrUnauthenticated   = errors.New("authentication required")
)
