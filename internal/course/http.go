package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/logging"
	httperrors "github.com/gokatarajesh/lms-platform/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the course catalog.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler exposes svc over HTTP.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "course_http").Logger(),
	}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	read := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuth(fn) }
	write := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuthor(fn) }

	mux.Handle("GET /v1/courses", read(h.ListCourses))
	mux.Handle("POST /v1/courses", write(h.CreateCourse))
	mux.Handle("GET /v1/courses/{id}", read(h.GetCourse))
	mux.Handle("PUT /v1/courses/{id}", write(h.UpdateCourse))
	mux.Handle("DELETE /v1/courses/{id}", write(h.DeleteCourse))

	mux.Handle("GET /v1/courses/{id}/lessons", read(h.ListLessons))
	mux.Handle("POST /v1/courses/{id}/lessons", write(h.CreateLesson))
	mux.Handle("GET /v1/lessons/{id}", read(h.GetLesson))
	mux.Handle("PUT /v1/lessons/{id}", write(h.UpdateLesson))
	mux.Handle("DELETE /v1/lessons/{id}", write(h.DeleteLesson))

	mux.Handle("GET /v1/lessons/{id}/resources", read(h.ListResources))
	mux.Handle("POST /v1/lessons/{id}/resources", write(h.CreateResource))
	mux.Handle("GET /v1/resources/{id}", read(h.GetResource))
	mux.Handle("DELETE /v1/resources/{id}", write(h.DeleteResource))
}

// ListCourses handles GET /v1/courses?q=&category=&sort=&limit=&offset=
func (h *HTTPHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort, err := ParseSort(q.Get("sort"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidSort, err.Error(), "sort")
		return
	}
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := intParam(w, q.Get("offset"), "offset")
	if !ok {
		return
	}

	params := ListParams{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     sort,
		Limit:    limit,
		Offset:   offset,
	}
	courses, err := h.svc.ListCourses(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	params = params.normalize()
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"limit":   params.Limit,
		"offset":  params.Offset,
	})
}

func (h *HTTPHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var in CourseInput
	if !h.decodeBody(w, r, &in) {
		return
	}
	c, err := h.svc.CreateCourse(r.Context(), auth.PrincipalFromContext(r.Context()), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, c)
}

func (h *HTTPHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCourse(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in CourseInput
	if !h.decodeBody(w, r, &in) {
		return
	}
	c, err := h.svc.UpdateCourse(r.Context(), auth.PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCourse(r.Context(), auth.PrincipalFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lessons, err := h.svc.ListLessons(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"lessons": lessons})
}

func (h *HTTPHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in LessonInput
	if !h.decodeBody(w, r, &in) {
		return
	}
	l, err := h.svc.CreateLesson(r.Context(), auth.PrincipalFromContext(r.Context()), courseID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, l)
}

func (h *HTTPHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := h.svc.GetLesson(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, l)
}

func (h *HTTPHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in LessonInput
	if !h.decodeBody(w, r, &in) {
		return
	}
	l, err := h.svc.UpdateLesson(r.Context(), auth.PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, l)
}

func (h *HTTPHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteLesson(r.Context(), auth.PrincipalFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resources, err := h.svc.ListResources(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"resources": resources})
}

func (h *HTTPHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in ResourceInput
	if !h.decodeBody(w, r, &in) {
		return
	}
	res, err := h.svc.CreateResource(r.Context(), auth.PrincipalFromContext(r.Context()), lessonID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, res)
}

func (h *HTTPHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetResource(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

func (h *HTTPHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteResource(r.Context(), auth.PrincipalFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected request body")
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ferr *FieldError
	switch {
	case errors.As(err, &ferr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, ferr.Message, ferr.Field)
	case errors.Is(err, ErrInvalidKind):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidKind, err.Error(), "kind")
	case errors.Is(err, ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Teacher or admin role required")
	case errors.Is(err, ErrCourseNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeCourseNotFound, "Course not found")
	case errors.Is(err, ErrLessonNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeLessonNotFound, "Lesson not found")
	case errors.Is(err, ErrResourceNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeResourceNotFound, "Resource not found")
	default:
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("catalog request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidID, "Id must be a positive integer", "id")
		return 0, false
	}
	return id, true
}

func intParam(w http.ResponseWriter, raw, field string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidRequest, field+" must be an integer", field)
		return 0, false
	}
	return v, true
}
