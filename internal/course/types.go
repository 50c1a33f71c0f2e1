package course

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidSort      = errors.New("invalid sort")
	ErrInvalidKind      = errors.New("invalid resource kind")
	ErrForbidden        = errors.New("teacher or admin role required")
)

// FieldError reports a rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Course is a catalog entry.
type Course struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CreatedBy   int64           `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CourseInput creates or updates a course.
type CourseInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

func (in *CourseInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Title == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}
	if in.Price.IsNegative() {
		return &FieldError{Field: "price", Message: "price must not be negative"}
	}
	in.Price = in.Price.Round(2)
	return nil
}

// Sort orders course listings.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitle     Sort = "title"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// ParseSort accepts the listing sort keys; empty means newest first.
func ParseSort(raw string) (Sort, error) {
	switch s := Sort(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortTitle, SortPriceAsc, SortPriceDesc:
		return s, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidSort, raw)
	}
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxOffset and MaxPosition match the int4 columns and query parameters.
	MaxOffset   = math.MaxInt32
	MaxPosition = math.MaxInt32
)

// ListParams filters and pages the course catalog.
type ListParams struct {
	Query    string
	Category string
	Sort     Sort
	Limit    int
	Offset   int
}

func (p ListParams) normalize() ListParams {
	p.Query = strings.TrimSpace(p.Query)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Sort == "" {
		p.Sort = SortNewest
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	switch {
	case p.Offset < 0:
		p.Offset = 0
	case p.Offset > MaxOffset:
		p.Offset = MaxOffset
	}
	return p
}

type Lesson struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LessonInput creates or updates a lesson. A nil Position appends on create and keeps
// the current position on update.
type LessonInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position *int   `json:"position,omitempty"`
}

func (in *LessonInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}
	if in.Position != nil && *in.Position < 0 {
		return &FieldError{Field: "position", Message: "position must not be negative"}
	}
	if in.Position != nil && *in.Position > MaxPosition {
		return &FieldError{Field: "position", Message: "position is too large"}
	}
	return nil
}

// Kind identifies what a lesson resource holds.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindQuiz     Kind = "quiz"
)

// Valid reports whether k is a known resource kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPDF, KindVideo, KindDocument, KindQuiz:
		return true
	}
	return false
}

// Resource is an attachment on a lesson. URL is empty for quizzes.
type Resource struct {
	ID        int64     `json:"id"`
	LessonID  int64     `json:"lessonId"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ResourceInput struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (in *ResourceInput) normalize() error {
	in.Kind = Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if !in.Kind.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidKind, in.Kind)
	}
	if in.Title == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}
	if in.Kind == KindQuiz {
		in.URL = ""
	} else if in.URL == "" {
		return &FieldError{Field: "url", Message: "url is required for " + string(in.Kind) + " resources"}
	}
	return nil
}
