// Package tui is the terminal client for the todo API. Rendering and key
// handling live here; the list itself is a viewstate.State.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tomlord1122/todo-list/internal/client"
	"github.com/Tomlord1122/todo-list/internal/viewstate"
)

// API is the subset of *client.Client the TUI needs.
type API interface {
	List(ctx context.Context) ([]client.Todo, error)
	Create(ctx context.Context, text string) (client.Todo, error)
	Update(ctx context.Context, id string, patch client.Patch) (client.Todo, error)
	Delete(ctx context.Context, id string) error
}

type todosLoadedMsg struct {
	todos []client.Todo
	err   error
}

type todoCreatedMsg struct {
	todo client.Todo
	err  error
}

type todoUpdatedMsg struct {
	todo client.Todo
	edit bool
	err  error
}

type todoDeletedMsg struct {
	id  string
	err error
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type Model struct {
	ctx   context.Context
	api   API
	state viewstate.State

	cursor int
	focus  focus
	input  textinput.Model
	edit   textinput.Model

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
}

// New returns a model that fetches the list as soon as it starts.
func New(ctx context.Context, api API) Model {
	input := textinput.New()
	input.Prompt = "+ "
	input.Placeholder = "Add a new task..."
	input.CharLimit = 500
	input.Focus()

	edit := textinput.New()
	edit.Prompt = "✎ "
	edit.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	state, _ := viewstate.State{Todos: []client.Todo{}}.StartLoad()

	return Model{
		ctx:     ctx,
		api:     api,
		state:   state,
		focus:   focusInput,
		input:   input,
		edit:    edit,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, api API) error {
	p := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// State exposes the current view state.
func (m Model) State() viewstate.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTodos(), m.spinner.Tick, textinput.Blink)
}

func (m Model) loadTodos() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.api.List(m.ctx)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (m Model) createTodo(text string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.Create(m.ctx, text)
		return todoCreatedMsg{todo: todo, err: err}
	}
}

func (m Model) updateTodo(id string, patch client.Patch, edit bool) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.Update(m.ctx, id, patch)
		return todoUpdatedMsg{todo: todo, edit: edit, err: err}
	}
}

func (m Model) deleteTodo(id string) tea.Cmd {
	return func() tea.Msg {
		return todoDeletedMsg{id: id, err: m.api.Delete(m.ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		if msg.err != nil {
			m.state = m.state.LoadFailed()
		} else {
			m.state = m.state.Loaded(msg.todos)
		}
		m.clampCursor()
		return m, nil

	case todoCreatedMsg:
		if msg.err != nil {
			m.state = m.state.CreateFailed()
			return m, nil
		}
		m.state = m.state.Created(msg.todo)
		m.input.SetValue("")
		m.cursor = 0
		return m, nil

	case todoUpdatedMsg:
		switch {
		case msg.err != nil:
			m.state = m.state.UpdateFailed()
		case msg.edit:
			m.state = m.state.EditSaved(msg.todo)
			m.edit.Blur()
		default:
			m.state = m.state.Updated(msg.todo)
		}
		return m, nil

	case todoDeletedMsg:
		if msg.err != nil {
			m.state = m.state.DeleteFailed()
		} else {
			m.state = m.state.Deleted(msg.id)
			if !m.state.Editing() {
				m.edit.Blur()
			}
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Controls are disabled until the in-flight request settles.
		if m.state.Loading {
			return m, nil
		}
		switch {
		case m.state.Editing():
			return m.updateEditing(msg)
		case m.focus == focusInput:
			return m.updateInput(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		next, id, patch, ok := m.state.StartSaveEdit()
		if !ok {
			return m, nil
		}
		m.state = next
		return m, m.updateTodo(id, patch, true)
	case key.Matches(msg, m.keys.Cancel):
		m.state = m.state.CancelEdit()
		m.edit.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.state = m.state.SetEditDraft(m.edit.Value())
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		next, text, ok := m.state.StartSubmit()
		if !ok {
			return m, nil
		}
		m.state = next
		return m, m.createTodo(text)
	case msg.String() == "tab", msg.String() == "down", key.Matches(msg, m.keys.Cancel):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state = m.state.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, hasSelection := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Reload):
		next, ok := m.state.StartLoad()
		if ok {
			m.state = next
			return m, m.loadTodos()
		}
	case key.Matches(msg, m.keys.Toggle) && hasSelection:
		next, patch, ok := m.state.StartToggle(selected.ID)
		if ok {
			m.state = next
			return m, m.updateTodo(selected.ID, patch, false)
		}
	case key.Matches(msg, m.keys.Edit) && hasSelection:
		m.state = m.state.BeginEdit(selected.ID)
		m.edit.SetValue(m.state.EditingText)
		m.edit.CursorEnd()
		cmd := m.edit.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete) && hasSelection:
		next, ok := m.state.StartDelete(selected.ID)
		if ok {
			m.state = next
			return m, m.deleteTodo(selected.ID)
		}
	}
	return m, nil
}

func (m Model) selected() (client.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Todos) {
		return client.Todo{}, false
	}
	return m.state.Todos[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Todos) {
		m.cursor = len(m.state.Todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, t := range m.state.Todos {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d\n",
		titleStyle.Render("Todo List"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(m.state.Todos)-done)
	b.WriteString(subtitleStyle.Render("Organize your day") + "\n\n")

	box := inputBoxStyle
	if m.focus == focusInput && !m.state.Editing() {
		box = focusedBoxStyle
	}
	b.WriteString(box.Render(m.input.View()) + "\n")

	if m.state.Error != "" {
		b.WriteString(errorStyle.Render("✖ "+m.state.Error) + "\n")
	}

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + mutedStyle.Render(" Loading...") + "\n")
	case len(m.state.Todos) == 0:
		b.WriteString(mutedStyle.Render("No tasks yet. Add one!") + "\n")
	}

	for i, t := range m.state.Todos {
		b.WriteString(m.renderTodo(i, t) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return panelStyle.Render(b.String())
}

func (m Model) renderTodo(i int, t client.Todo) string {
	prefix := "  "
	if m.focus == focusList && i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}

	box := mutedStyle.Render(boxUnchecked)
	text := t.Text
	if t.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(t.Text)
	}
	if m.state.EditingID == t.ID {
		text = m.edit.View()
	}
	return fmt.Sprintf("%s%s %s", prefix, box, text)
}
