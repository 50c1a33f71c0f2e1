package quiz

import (
	"sort"
	"strconv"
	"strings"
)

// NewQuestion builds a question of type t with an initialized body.
// Unknown types fall back to multiple choice.
func NewQuestion(id int, t QuestionType) Question {
	if !t.Valid() {
		t = TypeMultiple
	}
	return Question{
		ID:     id,
		Type:   t,
		Points: DefaultPoints,
		Body:   newBody(t),
	}
}

func newBody(t QuestionType) Body {
	switch t.Family() {
	case FamilyText:
		return &Text{}
	case FamilyLabeling:
		return &Labeling{Pairs: []LabelPair{{Label: SequenceLabel(0)}}}
	default:
		return &Choice{Options: []string{""}}
	}
}

// Clone deep copies the question, including its body.
func (q Question) Clone() Question {
	if q.Body != nil {
		q.Body = q.Body.clone()
	}
	return q
}

// Choice returns the choice body when the question is choice-like.
func (q *Question) Choice() (*Choice, bool) {
	c, ok := q.Body.(*Choice)
	return c, ok && q.Type.Family() == FamilyChoice
}

// Text returns the text body when the question is text-like.
func (q *Question) Text() (*Text, bool) {
	t, ok := q.Body.(*Text)
	return t, ok && q.Type.Family() == FamilyText
}

// Labeling returns the labeling body when the question is a labeling question.
func (q *Question) Labeling() (*Labeling, bool) {
	l, ok := q.Body.(*Labeling)
	return l, ok && q.Type == TypeLabeling
}

// SetType converts the question to t, resetting fields the new type cannot carry.
// Moving between choice types keeps the options; a single-select target drops a
// multi-option answer key.
func (q *Question) SetType(t QuestionType) bool {
	if !t.Valid() || t == q.Type {
		return false
	}
	if c, ok := q.Choice(); ok && t.Family() == FamilyChoice {
		if t.SingleSelect() && len(c.Correct) > 1 {
			c.Correct = nil
		}
		q.Type = t
		return true
	}
	q.Type = t
	q.Body = newBody(t)
	return true
}

// AddOption appends an empty option to a choice-like question.
func (q *Question) AddOption() bool {
	c, ok := q.Choice()
	if !ok {
		return false
	}
	c.Options = append(c.Options, "")
	return true
}

// UpdateOption replaces the text of option i.
func (q *Question) UpdateOption(i int, text string) bool {
	c, ok := q.Choice()
	if !ok || i < 0 || i >= len(c.Options) {
		return false
	}
	c.Options[i] = text
	return true
}

// RemoveOption deletes option i and keeps the answer key aligned. The last option
// cannot be removed.
func (q *Question) RemoveOption(i int) bool {
	c, ok := q.Choice()
	if !ok || len(c.Options) <= 1 || i < 0 || i >= len(c.Options) {
		return false
	}
	c.Options = append(c.Options[:i:i], c.Options[i+1:]...)
	c.Correct = dropAndShift(c.Correct, i)
	return true
}

// ToggleCorrect marks option i as correct. Single-select types replace the key with {i};
// checkbox questions flip the membership of i.
func (q *Question) ToggleCorrect(i int) bool {
	c, ok := q.Choice()
	if !ok || i < 0 || i >= len(c.Options) {
		return false
	}
	if q.Type.SingleSelect() {
		c.Correct = []int{i}
		return true
	}
	if c.IsCorrect(i) {
		c.Correct = without(c.Correct, i)
		return true
	}
	c.Correct = normalizeIndices(append(c.Correct, i), len(c.Options))
	return true
}

// AddLabelPair appends a pair labelled with the next letter in sequence.
func (q *Question) AddLabelPair() bool {
	l, ok := q.Labeling()
	if !ok {
		return false
	}
	l.Pairs = append(l.Pairs, LabelPair{Label: SequenceLabel(len(l.Pairs))})
	return true
}

// UpdateLabelPair replaces pair i.
func (q *Question) UpdateLabelPair(i int, label, answer string) bool {
	l, ok := q.Labeling()
	if !ok || i < 0 || i >= len(l.Pairs) {
		return false
	}
	l.Pairs[i] = LabelPair{Label: label, Answer: answer}
	return true
}

// RemoveLabelPair deletes pair i. The last pair cannot be removed.
func (q *Question) RemoveLabelPair(i int) bool {
	l, ok := q.Labeling()
	if !ok || len(l.Pairs) <= 1 || i < 0 || i >= len(l.Pairs) {
		return false
	}
	l.Pairs = append(l.Pairs[:i:i], l.Pairs[i+1:]...)
	return true
}

// SetImageURL stores the image reference of a labeling question.
func (q *Question) SetImageURL(url string) bool {
	l, ok := q.Labeling()
	if !ok {
		return false
	}
	l.ImageURL = url
	return true
}

// SetAnswer sets the answer key of a text-like question.
func (q *Question) SetAnswer(a Answer) bool {
	t, ok := q.Text()
	if !ok {
		return false
	}
	t.Answer = a
	return true
}

// SetPoints stores n, coercing non-positive values to DefaultPoints.
func (q *Question) SetPoints(n int) {
	if n < 1 {
		n = DefaultPoints
	}
	q.Points = n
}

// SetPointsInput parses raw form input into a point value.
func (q *Question) SetPointsInput(raw string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = DefaultPoints
	}
	q.SetPoints(n)
}

// Direction moves a question towards the start (Up) or end (Down) of the quiz.
type Direction int

const (
	Up Direction = iota
	Down
)

// Reorder swaps the question at index with its neighbor in dir. It is a no-op at the
// boundaries and for out-of-range indices.
func (q *Quiz) Reorder(index int, dir Direction) bool {
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if index < 0 || index >= len(q.Questions) || target < 0 || target >= len(q.Questions) {
		return false
	}
	q.Questions[index], q.Questions[target] = q.Questions[target], q.Questions[index]
	return true
}

// SequenceLabel returns the conventional label for position i: A..Z, AA, AB, ...
func SequenceLabel(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i; ; n = n/26 - 1 {
		b = append([]byte{byte('A' + n%26)}, b...)
		if n < 26 {
			break
		}
	}
	return string(b)
}

// dropAndShift removes removed from idx and shifts greater indices down by one.
func dropAndShift(idx []int, removed int) []int {
	out := make([]int, 0, len(idx))
	for _, v := range idx {
		switch {
		case v == removed:
		case v > removed:
			out = append(out, v-1)
		default:
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func without(idx []int, v int) []int {
	out := make([]int, 0, len(idx))
	for _, x := range idx {
		if x != v {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeIndices sorts, dedupes and bounds idx to [0, n).
func normalizeIndices(idx []int, n int) []int {
	seen := make(map[int]struct{}, len(idx))
	out := make([]int, 0, len(idx))
	for _, v := range idx {
		if v < 0 || v >= n {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Ints(out)
	return out
}
