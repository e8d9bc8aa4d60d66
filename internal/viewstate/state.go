// Package viewstate holds the client's view of the todo list and the
// transitions between states. Every method is pure: it returns a new State
// and never mutates the receiver or slices shared with it.
//
// A transition that talks to the API is split in two. Start* checks its
// guards, marks the state as loading and returns what to send; the caller
// performs the request and then applies exactly one of the matching success
// or failure methods. While Loading is set, every Start* and local edit is
// refused, which keeps a single client from issuing overlapping requests.
package viewstate

import (
	"slices"
	"strings"

	"github.com/Tomlord1122/todo-list/internal/client"
)

// Failure messages shown to the user.
const (
	MsgFetchFailed  = "Failed to fetch todos"
	MsgAddFailed    = "Failed to add todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleteFailed = "Failed to delete todo"
)

type State struct {
	Todos       []client.Todo
	NewTodoText string
	Loading     bool
	// Error is empty when there is nothing to report.
	Error string
	// EditingID is empty when no todo is being edited.
	EditingID   string
	EditingText string
}

// Editing reports whether an edit is in progress.
func (s State) Editing() bool { return s.EditingID != "" }

// Find returns the todo with id and whether it is present.
func (s State) Find(id string) (client.Todo, bool) {
	i := s.index(id)
	if i < 0 {
		return client.Todo{}, false
	}
	return s.Todos[i], true
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Todos, func(t client.Todo) bool { return t.ID == id })
}

func (s State) begin() State {
	s.Loading = true
	s.Error = ""
	return s
}

func (s State) fail(msg string) State {
	s.Loading = false
	s.Error = msg
	return s
}

// replace swaps in todo for the record with the same id, on a fresh slice.
func (s State) replace(todo client.Todo) State {
	todos := slices.Clone(s.Todos)
	if i := s.index(todo.ID); i >= 0 {
		todos[i] = todo
	}
	s.Todos = todos
	return s
}

// StartLoad begins fetching the full list.
func (s State) StartLoad() (State, bool) {
	if s.Loading {
		return s, false
	}
	return s.begin(), true
}

// Loaded replaces the list with the server's.
func (s State) Loaded(todos []client.Todo) State {
	s.Todos = slices.Clone(todos)
	if s.Todos == nil {
		s.Todos = []client.Todo{}
	}
	s.Loading = false
	return s
}

func (s State) LoadFailed() State { return s.fail(MsgFetchFailed) }

// SetDraft updates the new-todo draft.
func (s State) SetDraft(text string) State {
	if s.Loading {
		return s
	}
	s.NewTodoText = text
	return s
}

// StartSubmit begins creating a todo from the draft. A blank draft is
// refused without touching the state.
func (s State) StartSubmit() (State, string, bool) {
	text := strings.TrimSpace(s.NewTodoText)
	if s.Loading || text == "" {
		return s, "", false
	}
	return s.begin(), text, true
}

// Created puts the new todo at the top of the list and clears the draft.
func (s State) Created(todo client.Todo) State {
	todos := make([]client.Todo, 0, len(s.Todos)+1)
	todos = append(todos, todo)
	s.Todos = append(todos, s.Todos...)
	s.NewTodoText = ""
	s.Loading = false
	return s
}

// CreateFailed keeps the draft so the user can retry.
func (s State) CreateFailed() State { return s.fail(MsgAddFailed) }

// StartToggle begins flipping the completed flag of id.
func (s State) StartToggle(id string) (State, client.Patch, bool) {
	todo, ok := s.Find(id)
	if s.Loading || !ok {
		return s, client.Patch{}, false
	}
	completed := !todo.Completed
	return s.begin(), client.Patch{Completed: &completed}, true
}

// Updated stores the server's copy of a todo. The local record is not
// patched in place; the response is authoritative.
func (s State) Updated(todo client.Todo) State {
	s = s.replace(todo)
	s.Loading = false
	return s
}

func (s State) UpdateFailed() State { return s.fail(MsgUpdateFailed) }

// BeginEdit starts editing id, seeding the draft with its current text.
func (s State) BeginEdit(id string) State {
	todo, ok := s.Find(id)
	if s.Loading || !ok {
		return s
	}
	s.EditingID = todo.ID
	s.EditingText = todo.Text
	return s
}

// SetEditDraft updates the text being edited.
func (s State) SetEditDraft(text string) State {
	if s.Loading || !s.Editing() {
		return s
	}
	s.EditingText = text
	return s
}

// StartSaveEdit begins saving the edit draft. A blank draft is refused
// without touching the state.
func (s State) StartSaveEdit() (State, string, client.Patch, bool) {
	text := strings.TrimSpace(s.EditingText)
	if s.Loading || !s.Editing() || text == "" {
		return s, "", client.Patch{}, false
	}
	return s.begin(), s.EditingID, client.Patch{Text: &text}, true
}

// EditSaved stores the server's copy and leaves edit mode.
func (s State) EditSaved(todo client.Todo) State {
	s = s.Updated(todo)
	s.EditingID = ""
	s.EditingText = ""
	return s
}

// CancelEdit leaves edit mode without saving.
func (s State) CancelEdit() State {
	if s.Loading {
		return s
	}
	s.EditingID = ""
	s.EditingText = ""
	return s
}

// StartDelete begins deleting id.
func (s State) StartDelete(id string) (State, bool) {
	if s.Loading || s.index(id) < 0 {
		return s, false
	}
	return s.begin(), true
}

// Deleted drops id from the list, ending an edit of it if one was open.
func (s State) Deleted(id string) State {
	s.Todos = slices.DeleteFunc(slices.Clone(s.Todos), func(t client.Todo) bool { return t.ID == id })
	if s.EditingID == id {
		s.EditingID = ""
		s.EditingText = ""
	}
	s.Loading = false
	return s
}

func (s State) DeleteFailed() State { return s.fail(MsgDeleteFailed) }
