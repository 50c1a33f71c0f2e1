package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMalformedPayload = errors.New("malformed quiz payload")
	ErrUnknownType      = errors.New("unknown question type")
)

// Wire shapes of the persisted payload. Field names are shared with the web client.

type wireSettings struct {
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	ShuffleQuestions bool   `json:"shuffleQuestions"`
	TimeLimit        int    `json:"timeLimit"`
	ShowResults      bool   `json:"showResults"`
	AllowRetakes     bool   `json:"allowRetakes"`
	PassingScore     int    `json:"passingScore"`
	MaxAttempts      int    `json:"maxAttempts"`
}

type wireLabel struct {
	Label  string `json:"label"`
	Answer string `json:"answer"`
}

type wireQuestion struct {
	ID             int          `json:"id"`
	Type           QuestionType `json:"type"`
	Question       string       `json:"question"`
	Description    string       `json:"description,omitempty"`
	Required       bool         `json:"required"`
	Points         int          `json:"points"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  *int         `json:"correctAnswer,omitempty"`
	CorrectAnswers []any        `json:"correctAnswers,omitempty"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	LabelAnswers   []wireLabel  `json:"labelAnswers,omitempty"`
}

type wireQuiz struct {
	Questions []wireQuestion `json:"questions"`
	Settings  wireSettings   `json:"settings"`
}

// Inbound shapes are looser: form fields may arrive as strings and legacy payloads
// disagree on where answer keys live.

type inboundSettings struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	ShuffleQuestions *bool    `json:"shuffleQuestions"`
	TimeLimit        *flexInt `json:"timeLimit"`
	ShowResults      *bool    `json:"showResults"`
	AllowRetakes     *bool    `json:"allowRetakes"`
	PassingScore     *flexInt `json:"passingScore"`
	MaxAttempts      *flexInt `json:"maxAttempts"`
}

type inboundQuestion struct {
	ID             json.RawMessage   `json:"id"`
	Type           QuestionType      `json:"type"`
	Question       string            `json:"question"`
	Description    string            `json:"description"`
	Required       bool              `json:"required"`
	Points         json.RawMessage   `json:"points"`
	Options        []string          `json:"options"`
	CorrectAnswer  json.RawMessage   `json:"correctAnswer"`
	CorrectAnswers []json.RawMessage `json:"correctAnswers"`
	ImageURL       string            `json:"imageUrl"`
	LabelAnswers   []wireLabel       `json:"labelAnswers"`
}

type inboundQuiz struct {
	Questions []inboundQuestion `json:"questions"`
	Settings  *inboundSettings  `json:"settings"`
}

// flexInt accepts a JSON number or a numeric string; anything else reads as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	n, _ := rawInt(data)
	*f = flexInt(n)
	return nil
}

// Encode renders the canonical {questions, settings} payload.
func Encode(q Quiz) ([]byte, error) {
	return json.Marshal(toWire(q))
}

// Decode parses a persisted payload. Both the canonical object and the legacy bare
// question array are accepted; the result is normalized so that every invariant of
// the model holds.
func Decode(data []byte) (Quiz, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return New(), nil
	}

	var in inboundQuiz
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &in.Questions); err != nil {
			return Quiz{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	case '{':
		if err := json.Unmarshal(data, &in); err != nil {
			return Quiz{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	default:
		return Quiz{}, fmt.Errorf("%w: expected object or array", ErrMalformedPayload)
	}

	out := Quiz{
		Questions: make([]Question, 0, len(in.Questions)),
		Settings:  fromInboundSettings(in.Settings),
	}
	for i, raw := range in.Questions {
		q, err := fromInbound(raw)
		if err != nil {
			return Quiz{}, fmt.Errorf("question %d: %w", i, err)
		}
		out.Questions = append(out.Questions, q)
	}
	assignIDs(out.Questions)
	return out, nil
}

// MarshalJSON implements json.Marshaler using the persisted shape.
func (q Quiz) MarshalJSON() ([]byte, error) {
	return Encode(q)
}

// UnmarshalJSON implements json.Unmarshaler, accepting both payload shapes.
func (q *Quiz) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

func toWire(q Quiz) wireQuiz {
	s := q.Settings
	out := wireQuiz{
		Questions: make([]wireQuestion, 0, len(q.Questions)),
		Settings: wireSettings{
			Title:            s.Title,
			Description:      s.Description,
			ShuffleQuestions: s.ShuffleQuestions,
			TimeLimit:        s.TimeLimit,
			ShowResults:      s.ShowResults,
			AllowRetakes:     s.AllowRetakes,
			PassingScore:     s.PassingScore,
			MaxAttempts:      s.MaxAttempts,
		},
	}
	for i := range q.Questions {
		out.Questions = append(out.Questions, questionToWire(&q.Questions[i]))
	}
	return out
}

func questionToWire(q *Question) wireQuestion {
	w := wireQuestion{
		ID:          q.ID,
		Type:        q.Type,
		Question:    q.Prompt,
		Description: q.Description,
		Required:    q.Required,
		Points:      q.Points,
	}
	if w.Points < 1 {
		w.Points = DefaultPoints
	}

	if c, ok := q.Choice(); ok {
		w.Options = append([]string{}, c.Options...)
		if q.Type.SingleSelect() {
			if len(c.Correct) > 0 {
				idx := c.Correct[0]
				w.CorrectAnswer = &idx
			}
		} else {
			for _, idx := range c.Correct {
				w.CorrectAnswers = append(w.CorrectAnswers, idx)
			}
		}
	}
	if t, ok := q.Text(); ok && t.Answer.kind != answerNone {
		if t.Answer.IsNumber() {
			w.CorrectAnswers = []any{t.Answer.number}
		} else {
			w.CorrectAnswers = []any{t.Answer.String()}
		}
	}
	if l, ok := q.Labeling(); ok {
		w.ImageURL = l.ImageURL
		for _, p := range l.Pairs {
			w.LabelAnswers = append(w.LabelAnswers, wireLabel(p))
		}
	}
	return w
}

func fromInboundSettings(in *inboundSettings) Settings {
	s := DefaultSettings()
	if in == nil {
		return s
	}
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.ShuffleQuestions != nil {
		s.ShuffleQuestions = *in.ShuffleQuestions
	}
	if in.TimeLimit != nil {
		s.TimeLimit = int(*in.TimeLimit)
	}
	if in.ShowResults != nil {
		s.ShowResults = *in.ShowResults
	}
	if in.AllowRetakes != nil {
		s.AllowRetakes = *in.AllowRetakes
	}
	if in.PassingScore != nil {
		s.PassingScore = int(*in.PassingScore)
	}
	if in.MaxAttempts != nil {
		s.MaxAttempts = int(*in.MaxAttempts)
	}
	return s.Normalize()
}

func fromInbound(in inboundQuestion) (Question, error) {
	if !in.Type.Valid() {
		return Question{}, fmt.Errorf("%w %q", ErrUnknownType, in.Type)
	}
	id, _ := rawInt(in.ID)
	q := NewQuestion(id, in.Type)
	q.Prompt = in.Question
	q.Description = in.Description
	q.Required = in.Required
	if n, ok := rawInt(in.Points); ok {
		q.SetPoints(n)
	}

	switch b := q.Body.(type) {
	case *Choice:
		if len(in.Options) > 0 {
			b.Options = append([]string(nil), in.Options...)
		}
		b.Correct = choiceKey(q.Type, in, len(b.Options))
	case *Text:
		if len(in.CorrectAnswers) > 0 {
			if a, ok := rawAnswer(in.CorrectAnswers[0]); ok {
				b.Answer = a
			}
		} else if a, ok := rawAnswer(in.CorrectAnswer); ok {
			b.Answer = a
		}
	case *Labeling:
		b.ImageURL = in.ImageURL
		if len(in.LabelAnswers) > 0 {
			b.Pairs = b.Pairs[:0]
			for _, p := range in.LabelAnswers {
				b.Pairs = append(b.Pairs, LabelPair(p))
			}
		}
	}
	return q, nil
}

// choiceKey merges correctAnswer and correctAnswers into a bounded index set.
func choiceKey(t QuestionType, in inboundQuestion, n int) []int {
	var idx []int
	single, hasSingle := rawInt(in.CorrectAnswer)
	if hasSingle {
		idx = append(idx, single)
	}
	if !t.SingleSelect() || !hasSingle {
		for _, raw := range in.CorrectAnswers {
			if v, ok := rawInt(raw); ok {
				idx = append(idx, v)
			}
		}
	}
	idx = normalizeIndices(idx, n)
	if t.SingleSelect() && len(idx) > 1 {
		idx = idx[:1]
	}
	return idx
}

// assignIDs gives questions with a missing or duplicate id a fresh one.
func assignIDs(qs []Question) {
	seen := make(map[int]struct{}, len(qs))
	next := 1
	for i := range qs {
		if qs[i].ID >= next {
			next = qs[i].ID + 1
		}
	}
	for i := range qs {
		_, dup := seen[qs[i].ID]
		if qs[i].ID <= 0 || dup {
			qs[i].ID = next
			next++
		}
		seen[qs[i].ID] = struct{}{}
	}
}

func rawInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(strings.TrimSpace(t))
	}
	return 0, false
}

// parseInt reads s as an integer, truncating a fractional value.
func parseInt(s string) (int, bool) {
	if n, err := strconv.ParseInt(s, 10, 0); err == nil {
		return int(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func rawAnswer(raw json.RawMessage) (Answer, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Answer{}, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Answer{}, false
	}
	switch t := v.(type) {
	case float64:
		return NumberAnswer(t), true
	case string:
		return TextAnswer(t), true
	}
	return Answer{}, false
}
