package quiz

import (
	"fmt"
	"strings"
)

// Problem is one reason a question cannot be saved.
type Problem struct {
	QuestionID int    `json:"questionId"`
	Reason     string `json:"reason"`
}

// ValidationError lists every problem found in a question or quiz.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("question %d: %s", e.Problems[0].QuestionID, e.Problems[0].Reason)
	}
	return fmt.Sprintf("quiz has %d problems", len(e.Problems))
}

// Reasons returns the problem descriptions in order.
func (e *ValidationError) Reasons() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Reason
	}
	return out
}

// Validate returns human-readable reasons why q is not ready to be saved. An empty
// result means the question is valid.
func (q Question) Validate() []string {
	var reasons []string
	if strings.TrimSpace(q.Prompt) == "" {
		reasons = append(reasons, "question text is required")
	}

	switch q.Type.Family() {
	case FamilyChoice:
		c, ok := q.Choice()
		if !ok || len(c.Options) == 0 {
			reasons = append(reasons, "at least one option is required")
			break
		}
		if len(c.Correct) == 0 {
			reasons = append(reasons, "select at least one correct answer")
		}
	case FamilyText:
		t, ok := q.Text()
		if !ok || !t.Answer.IsSet() {
			reasons = append(reasons, "a correct answer is required")
		}
	case FamilyLabeling:
		l, ok := q.Labeling()
		if !ok || len(l.Pairs) == 0 {
			reasons = append(reasons, "at least one label is required")
			break
		}
		for i, p := range l.Pairs {
			if strings.TrimSpace(p.Label) == "" || strings.TrimSpace(p.Answer) == "" {
				reasons = append(reasons, fmt.Sprintf("label %d needs both a label and an answer", i+1))
			}
		}
	default:
		reasons = append(reasons, fmt.Sprintf("unknown question type %q", q.Type))
	}
	return reasons
}

// ValidateQuestion wraps Validate into a *ValidationError, or nil when q is valid.
func ValidateQuestion(q Question) error {
	reasons := q.Validate()
	if len(reasons) == 0 {
		return nil
	}
	verr := &ValidationError{}
	for _, r := range reasons {
		verr.Problems = append(verr.Problems, Problem{QuestionID: q.ID, Reason: r})
	}
	return verr
}

// ValidateQuiz checks every question and the uniqueness of their identifiers.
func ValidateQuiz(qz Quiz) error {
	verr := &ValidationError{}
	seen := make(map[int]struct{}, len(qz.Questions))
	for _, q := range qz.Questions {
		if _, dup := seen[q.ID]; dup {
			verr.Problems = append(verr.Problems, Problem{QuestionID: q.ID, Reason: "duplicate question id"})
		}
		seen[q.ID] = struct{}{}
		for _, r := range q.Validate() {
			verr.Problems = append(verr.Problems, Problem{QuestionID: q.ID, Reason: r})
		}
	}
	if len(verr.Problems) == 0 {
		return nil
	}
	return verr
}
