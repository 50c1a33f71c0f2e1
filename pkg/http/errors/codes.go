package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidID        = "invalid_id"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Catalog errors
	ErrCodeCourseNotFound   = "course_not_found"
	ErrCodeLessonNotFound   = "lesson_not_found"
	ErrCodeResourceNotFound = "resource_not_found"
	ErrCodeInvalidSort      = "invalid_sort"
	ErrCodeInvalidKind      = "invalid_resource_kind"

	// Quiz errors
	ErrCodeQuizNotFound      = "quiz_not_found"
	ErrCodeNotAQuiz          = "not_a_quiz"
	ErrCodeInvalidQuiz       = "invalid_quiz"
	ErrCodeAttemptsExhausted = "attempts_exhausted"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
