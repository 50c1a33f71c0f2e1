package quiz

import (
	"errors"

	"github.com/gokatarajesh/lms-platform/internal/auth"
)

var (
	ErrForbidden        = errors.New("role may not author quizzes")
	ErrAlreadyEditing   = errors.New("another question is being edited")
	ErrNotEditing       = errors.New("no question is being edited")
	ErrQuestionNotFound = errors.New("question not found")
)

// EditState is the per-question editing state.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Editor holds a quiz being authored. At most one question is in the Editing state.
// Edits go to a detached draft and reach the quiz only through Save.
type Editor struct {
	author  auth.Principal
	quiz    Quiz
	editing int // question id, valid while state == Editing
	state   EditState
	draft   *Question
	added   bool // the edited question was created by AddQuestion
}

// NewEditor starts an authoring session over a copy of qz.
func NewEditor(qz Quiz, author auth.Principal) (*Editor, error) {
	if !author.Role.CanAuthor() {
		return nil, ErrForbidden
	}
	return &Editor{author: author, quiz: qz.Clone()}, nil
}

// Author returns the principal the session was opened for.
func (e *Editor) Author() auth.Principal { return e.author }

// Quiz returns a copy of the committed quiz. A question added but not yet saved is
// left out.
func (e *Editor) Quiz() Quiz {
	out := e.quiz.Clone()
	if e.state == Editing && e.added {
		if idx := out.Index(e.editing); idx >= 0 {
			out.Questions = append(out.Questions[:idx:idx], out.Questions[idx+1:]...)
		}
	}
	return out
}

// State reports the state of question id.
func (e *Editor) State(id int) EditState {
	if e.state == Editing && e.editing == id {
		return Editing
	}
	return Viewing
}

// EditingID returns the id of the question being edited.
func (e *Editor) EditingID() (int, bool) {
	return e.editing, e.state == Editing
}

// Begin enters the Editing state for question id.
func (e *Editor) Begin(id int) error {
	if e.state == Editing {
		if e.editing == id {
			return nil
		}
		return ErrAlreadyEditing
	}
	idx := e.quiz.Index(id)
	if idx < 0 {
		return ErrQuestionNotFound
	}
	draft := e.quiz.Questions[idx].Clone()
	e.draft = &draft
	e.editing = id
	e.state = Editing
	e.added = false
	return nil
}

// Draft returns the question being edited. Changes to it are not visible in Quiz until
// Save; the pointer is detached once the edit ends.
func (e *Editor) Draft() (*Question, error) {
	if e.state != Editing {
		return nil, ErrNotEditing
	}
	return e.draft, nil
}

// Save commits the draft if it validates and returns to Viewing. An invalid draft is
// reported as a *ValidationError and stays in Editing. The question keeps its id
// and its current position.
func (e *Editor) Save() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	idx := e.quiz.Index(e.editing)
	if idx < 0 {
		return ErrQuestionNotFound
	}
	e.draft.ID = e.editing
	if err := ValidateQuestion(*e.draft); err != nil {
		return err
	}
	e.quiz.Questions[idx] = e.draft.Clone()
	e.reset()
	return nil
}

// Cancel discards the draft. A question created by AddQuestion is removed.
func (e *Editor) Cancel() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if e.added {
		if idx := e.quiz.Index(e.editing); idx >= 0 {
			e.quiz.Questions = append(e.quiz.Questions[:idx:idx], e.quiz.Questions[idx+1:]...)
		}
	}
	e.reset()
	return nil
}

// AddQuestion appends a new question of type t and begins editing it.
func (e *Editor) AddQuestion(t QuestionType) (int, error) {
	if e.state == Editing {
		return 0, ErrAlreadyEditing
	}
	q := NewQuestion(e.quiz.NextID(), t)
	e.quiz.Questions = append(e.quiz.Questions, q)
	if err := e.Begin(q.ID); err != nil {
		return 0, err
	}
	e.added = true
	return q.ID, nil
}

// RemoveQuestion deletes question id. Removing the question being edited ends the edit.
func (e *Editor) RemoveQuestion(id int) error {
	idx := e.quiz.Index(id)
	if idx < 0 {
		return ErrQuestionNotFound
	}
	if e.state == Editing && e.editing == id {
		e.reset()
	}
	e.quiz.Questions = append(e.quiz.Questions[:idx:idx], e.quiz.Questions[idx+1:]...)
	return nil
}

// MoveQuestion swaps question id with its neighbor in dir.
func (e *Editor) MoveQuestion(id int, dir Direction) (bool, error) {
	idx := e.quiz.Index(id)
	if idx < 0 {
		return false, ErrQuestionNotFound
	}
	return e.quiz.Reorder(idx, dir), nil
}

// UpdateSettings replaces the quiz settings.
func (e *Editor) UpdateSettings(s Settings) {
	e.quiz.Settings = s.Normalize()
}

func (e *Editor) reset() {
	e.state = Viewing
	e.editing = 0
	e.draft = nil
	e.added = false
}
