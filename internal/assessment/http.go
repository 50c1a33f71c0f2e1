package assessment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/logging"
	"github.com/gokatarajesh/lms-platform/internal/quiz"
	"github.com/gokatarajesh/lms-platform/internal/quiz/scoring"
	httperrors "github.com/gokatarajesh/lms-platform/pkg/http/errors"
)

const defaultMaxPayloadBytes = 8 << 20

// HTTPHandler exposes quiz endpoints bound to lesson resources.
type HTTPHandler struct {
	svc        *Service
	maxPayload int64
	logger     zerolog.Logger
}

// NewHTTPHandler wires the quiz endpoints to svc.
func NewHTTPHandler(svc *Service, maxPayload int64, logger zerolog.Logger) *HTTPHandler {
	if maxPayload <= 0 {
		maxPayload = defaultMaxPayloadBytes
	}
	return &HTTPHandler{
		svc:        svc,
		maxPayload: maxPayload,
		logger:     logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Register mounts the quiz routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /v1/resources/{id}/quiz", auth.RequireAuth(http.HandlerFunc(h.GetQuiz)))
	mux.Handle("PUT /v1/resources/{id}/quiz", auth.RequireAuthor(http.HandlerFunc(h.SaveQuiz)))
	mux.Handle("POST /v1/resources/{id}/quiz/refetch", auth.RequireAuth(http.HandlerFunc(h.RefetchQuiz)))
	mux.Handle("POST /v1/quizzes/validate", auth.RequireAuthor(http.HandlerFunc(h.ValidateQuiz)))
	mux.Handle("POST /v1/resources/{id}/quiz/attempts", auth.RequireAuth(http.HandlerFunc(h.SubmitAttempt)))
	mux.Handle("GET /v1/resources/{id}/quiz/attempts", auth.RequireAuth(http.HandlerFunc(h.ListAttempts)))
}

// GetQuiz handles GET /v1/resources/{id}/quiz
func (h *HTTPHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	p := auth.PrincipalFromContext(r.Context())
	qz, err := h.svc.ForPrincipal(r.Context(), p, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondQuiz(w, http.StatusOK, qz)
}

// SaveQuiz handles PUT /v1/resources/{id}/quiz. The body may be the object document or
// the legacy bare question array.
func (h *HTTPHandler) SaveQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	qz, ok := h.decodeQuiz(w, r)
	if !ok {
		return
	}

	saved, err := h.svc.Save(r.Context(), auth.PrincipalFromContext(r.Context()), id, qz)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondQuiz(w, http.StatusOK, saved)
}

// RefetchQuiz handles POST /v1/resources/{id}/quiz/refetch
func (h *HTTPHandler) RefetchQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	qz, err := h.svc.Refetch(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondQuiz(w, http.StatusOK, ViewFor(auth.PrincipalFromContext(r.Context()), id, qz))
}

// ValidateQuiz handles POST /v1/quizzes/validate without persisting anything.
func (h *HTTPHandler) ValidateQuiz(w http.ResponseWriter, r *http.Request) {
	qz, ok := h.decodeQuiz(w, r)
	if !ok {
		return
	}
	if err := quiz.ValidateQuiz(qz); err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":         true,
		"questionCount": len(qz.Questions),
		"totalPoints":   qz.TotalPoints(),
	})
}

// SubmitAttempt handles POST /v1/resources/{id}/quiz/attempts
func (h *HTTPHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	var sub scoring.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxPayload)).Decode(&sub); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	attempt, err := h.svc.Submit(r.Context(), auth.PrincipalFromContext(r.Context()), id, sub)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, attempt)
}

// ListAttempts handles GET /v1/resources/{id}/quiz/attempts
func (h *HTTPHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	attempts, err := h.svc.Attempts(r.Context(), auth.PrincipalFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func (h *HTTPHandler) decodeQuiz(w http.ResponseWriter, r *http.Request) (quiz.Quiz, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxPayload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodeInvalidRequest, "Quiz payload too large")
			return quiz.Quiz{}, false
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Could not read request body")
		return quiz.Quiz{}, false
	}
	qz, err := quiz.Decode(body)
	if err != nil {
		h.logger.Debug().Err(err).Msg("rejected quiz payload")
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuiz, err.Error())
		return quiz.Quiz{}, false
	}
	return qz, true
}

func (h *HTTPHandler) respondQuiz(w http.ResponseWriter, status int, qz quiz.Quiz) {
	data, err := quiz.Encode(qz)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to encode quiz")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeValidationFailed, "Quiz failed validation", map[string]interface{}{
			"problems": verr.Problems,
		})
	case errors.Is(err, quiz.ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Teacher or admin role required")
	case errors.Is(err, ErrUnauthenticated):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
	case errors.Is(err, ErrQuizNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
	case errors.Is(err, ErrNotAQuiz):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotAQuiz, "Resource is not a quiz")
	case errors.Is(err, ErrAttemptsExhausted):
		httperrors.RespondConflict(w, httperrors.ErrCodeAttemptsExhausted, err.Error())
	case errors.Is(err, ErrAttemptConflict):
		httperrors.RespondConflict(w, httperrors.ErrCodeConflict, "Another attempt was submitted at the same time, retry")
	default:
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("quiz request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}

func resourceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidID, "Resource id must be a positive integer", "id")
		return 0, false
	}
	return id, true
}
