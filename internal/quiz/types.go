package quiz

import (
	"strconv"
	"strings"
)

// QuestionType is the persisted discriminator of a question.
type QuestionType string

const (
	TypeMultiple  QuestionType = "multiple"
	TypeCheckbox  QuestionType = "checkbox"
	TypeTrueFalse QuestionType = "truefalse"
	TypeShort     QuestionType = "short"
	TypeLong      QuestionType = "long"
	TypeNumber    QuestionType = "number"
	TypeLabeling  QuestionType = "labeling"
)

// Family groups question types that share a body shape.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyChoice
	FamilyText
	FamilyLabeling
)

// Family returns the body family for t.
func (t QuestionType) Family() Family {
	switch t {
	case TypeMultiple, TypeCheckbox, TypeTrueFalse:
		return FamilyChoice
	case TypeShort, TypeLong, TypeNumber:
		return FamilyText
	case TypeLabeling:
		return FamilyLabeling
	default:
		return FamilyUnknown
	}
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	return t.Family() != FamilyUnknown
}

// SingleSelect reports whether at most one option may be marked correct.
func (t QuestionType) SingleSelect() bool {
	return t == TypeMultiple || t == TypeTrueFalse
}

// DefaultPoints is the point value of a new question.
const DefaultPoints = 1

// Question is one entry of a quiz. Body holds the type-specific payload and is always
// one of *Choice, *Text or *Labeling matching Type.Family().
type Question struct {
	ID          int
	Type        QuestionType
	Prompt      string
	Description string
	Required    bool
	Points      int
	Body        Body
}

// Body is the variant part of a question.
type Body interface {
	family() Family
	clone() Body
}

// Choice is the body of multiple, checkbox and truefalse questions.
// Correct holds sorted, unique indices into Options.
type Choice struct {
	Options []string
	Correct []int
}

func (c *Choice) family() Family { return FamilyChoice }

func (c *Choice) clone() Body {
	return &Choice{
		Options: cloneSlice(c.Options),
		Correct: cloneSlice(c.Correct),
	}
}

// IsCorrect reports whether option i is part of the answer key.
func (c *Choice) IsCorrect(i int) bool {
	for _, idx := range c.Correct {
		if idx == i {
			return true
		}
	}
	return false
}

// Text is the body of short, long and number questions.
type Text struct {
	Answer Answer
}

func (t *Text) family() Family { return FamilyText }

func (t *Text) clone() Body {
	cp := *t
	return &cp
}

// LabelPair binds a label placed on an image to its expected answer.
type LabelPair struct {
	Label  string
	Answer string
}

// Labeling is the body of labeling questions.
type Labeling struct {
	ImageURL string
	Pairs    []LabelPair
}

func (l *Labeling) family() Family { return FamilyLabeling }

func (l *Labeling) clone() Body {
	return &Labeling{
		ImageURL: l.ImageURL,
		Pairs:    cloneSlice(l.Pairs),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

type answerKind int

const (
	answerNone answerKind = iota
	answerText
	answerNumber
)

// Answer is the key of a text-like question: unset, a string or a number.
type Answer struct {
	kind   answerKind
	text   string
	number float64
}

// TextAnswer builds a string answer key.
func TextAnswer(s string) Answer {
	return Answer{kind: answerText, text: s}
}

// NumberAnswer builds a numeric answer key.
func NumberAnswer(f float64) Answer {
	return Answer{kind: answerNumber, number: f}
}

// IsSet reports whether the answer carries a usable value.
func (a Answer) IsSet() bool {
	switch a.kind {
	case answerText:
		return strings.TrimSpace(a.text) != ""
	case answerNumber:
		return true
	default:
		return false
	}
}

// IsNumber reports whether the answer was stored as a JSON number.
func (a Answer) IsNumber() bool { return a.kind == answerNumber }

// Number returns the numeric value of the answer, parsing string answers.
func (a Answer) Number() (float64, bool) {
	switch a.kind {
	case answerNumber:
		return a.number, true
	case answerText:
		f, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (a Answer) String() string {
	switch a.kind {
	case answerText:
		return a.text
	case answerNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	default:
		return ""
	}
}

// Settings controls how a quiz is delivered and graded.
type Settings struct {
	Title            string
	Description      string
	ShuffleQuestions bool
	TimeLimit        int // minutes, 0 = unlimited
	ShowResults      bool
	AllowRetakes     bool
	PassingScore     int // percent
	MaxAttempts      int // 0 = unlimited
}

// DefaultSettings is applied to new quizzes and to legacy payloads without settings.
func DefaultSettings() Settings {
	return Settings{
		Title:        "Untitled quiz",
		ShowResults:  true,
		AllowRetakes: true,
		PassingScore: 70,
	}
}

// Normalize clamps numeric settings into their valid ranges.
func (s Settings) Normalize() Settings {
	if s.TimeLimit < 0 {
		s.TimeLimit = 0
	}
	if s.MaxAttempts < 0 {
		s.MaxAttempts = 0
	}
	if s.PassingScore < 0 {
		s.PassingScore = 0
	}
	if s.PassingScore > 100 {
		s.PassingScore = 100
	}
	return s
}

// Quiz is an ordered list of questions plus its settings.
type Quiz struct {
	Questions []Question
	Settings  Settings
}

// New returns an empty quiz with default settings.
func New() Quiz {
	return Quiz{Questions: []Question{}, Settings: DefaultSettings()}
}

// Clone deep copies the quiz.
func (q Quiz) Clone() Quiz {
	out := Quiz{Settings: q.Settings}
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
	}
	for i := range q.Questions {
		out.Questions[i] = q.Questions[i].Clone()
	}
	return out
}

// Index returns the position of question id, or -1.
func (q Quiz) Index(id int) int {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// NextID returns an identifier not used by any question in the quiz.
func (q Quiz) NextID() int {
	next := 1
	for i := range q.Questions {
		if q.Questions[i].ID >= next {
			next = q.Questions[i].ID + 1
		}
	}
	return next
}

// TotalPoints sums the point values of all questions.
func (q Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}
