package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/gokatarajesh/lms-platform/internal/quiz"
)

// Config holds grading tolerances.
type Config struct {
	NumericTolerance float64 // default: 1e-9
	CaseSensitive    bool    // default: false
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{NumericTolerance: 1e-9}
}

// Response is a learner's answer to one question. Only the field matching the question
// family is read.
type Response struct {
	Selected []int             `json:"selected,omitempty"`
	Text     string            `json:"text,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
}

// Submission maps question ids to responses.
type Submission struct {
	Answers map[int]Response `json:"answers"`
}

// QuestionResult is the grading outcome of one question.
type QuestionResult struct {
	QuestionID  int  `json:"questionId"`
	Answered    bool `json:"answered"`
	Correct     bool `json:"correct"`
	Earned      int  `json:"earned"`
	Possible    int  `json:"possible"`
	NeedsReview bool `json:"needsReview,omitempty"`
}

// Result aggregates a graded submission.
type Result struct {
	Earned          int              `json:"earned"`
	Possible        int              `json:"possible"`
	Percent         float64          `json:"percent"`
	Passed          bool             `json:"passed"`
	PendingReview   int              `json:"pendingReview"`
	MissingRequired []int            `json:"missingRequired,omitempty"`
	Questions       []QuestionResult `json:"questions,omitempty"`
}

// Engine grades submissions against quiz answer keys.
type Engine struct {
	config Config
}

// NewEngine creates a grading engine with the provided config.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Grade scores sub against qz. Long answers are not auto-graded: they are flagged for
// review and excluded from the possible score.
func (e *Engine) Grade(qz quiz.Quiz, sub Submission) Result {
	var res Result
	for i := range qz.Questions {
		q := &qz.Questions[i]
		resp, answered := sub.Answers[q.ID]
		answered = answered && isAnswered(resp)

		qr := QuestionResult{QuestionID: q.ID, Answered: answered, Possible: q.Points}
		if q.Required && !answered {
			res.MissingRequired = append(res.MissingRequired, q.ID)
		}

		if q.Type == quiz.TypeLong {
			qr.Possible = 0
			qr.NeedsReview = answered
			if answered {
				res.PendingReview++
			}
		} else if answered {
			qr.Correct = e.isCorrect(q, resp)
		}
		if qr.Correct {
			qr.Earned = q.Points
		}

		res.Earned += qr.Earned
		res.Possible += qr.Possible
		res.Questions = append(res.Questions, qr)
	}

	if res.Possible > 0 {
		res.Percent = math.Round(float64(res.Earned)/float64(res.Possible)*10000) / 100
	}
	res.Passed = res.Percent >= float64(qz.Settings.PassingScore)
	return res
}

func (e *Engine) isCorrect(q *quiz.Question, resp Response) bool {
	if c, ok := q.Choice(); ok {
		selected := uniqueSorted(resp.Selected)
		if len(c.Correct) == 0 || len(selected) != len(c.Correct) {
			return false
		}
		if q.Type.SingleSelect() && len(selected) != 1 {
			return false
		}
		for i := range selected {
			if selected[i] != c.Correct[i] {
				return false
			}
		}
		return true
	}

	if t, ok := q.Text(); ok {
		if !t.Answer.IsSet() {
			return false
		}
		if q.Type == quiz.TypeNumber {
			want, okWant := t.Answer.Number()
			got, okGot := quiz.TextAnswer(resp.Text).Number()
			return okWant && okGot && math.Abs(want-got) <= e.config.NumericTolerance
		}
		return e.sameText(t.Answer.String(), resp.Text)
	}

	if l, ok := q.Labeling(); ok {
		if len(l.Pairs) == 0 {
			return false
		}
		for _, p := range l.Pairs {
			if !e.sameText(p.Answer, resp.Labels[p.Label]) {
				return false
			}
		}
		return true
	}
	return false
}

func (e *Engine) sameText(want, got string) bool {
	want, got = strings.TrimSpace(want), strings.TrimSpace(got)
	if want == "" {
		return false
	}
	if e.config.CaseSensitive {
		return want == got
	}
	return strings.EqualFold(want, got)
}

func isAnswered(r Response) bool {
	if len(r.Selected) > 0 || strings.TrimSpace(r.Text) != "" {
		return true
	}
	for _, v := range r.Labels {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func uniqueSorted(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
