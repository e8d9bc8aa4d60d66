package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-list/internal/client"
)

func sample() State {
	return State{Todos: []client.Todo{
		{ID: "1", Text: "Buy milk"},
		{ID: "2", Text: "Walk dog", Completed: true},
	}}
}

func TestLoad(t *testing.T) {
	s, ok := State{Error: "old"}.StartLoad()
	require.True(t, ok)
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error, "starting a request clears the error")

	_, ok = s.StartLoad()
	assert.False(t, ok, "no overlapping requests")

	loaded := s.Loaded([]client.Todo{{ID: "9", Text: "x"}})
	assert.False(t, loaded.Loading)
	assert.Len(t, loaded.Todos, 1)

	failed := s.LoadFailed()
	assert.False(t, failed.Loading)
	assert.Equal(t, MsgFetchFailed, failed.Error)

	empty := s.Loaded(nil)
	assert.NotNil(t, empty.Todos)
}

func TestSubmit(t *testing.T) {
	s := sample().SetDraft("  Pay rent ")

	next, text, ok := s.StartSubmit()
	require.True(t, ok)
	assert.Equal(t, "Pay rent", text)
	assert.True(t, next.Loading)

	done := next.Created(client.Todo{ID: "3", Text: "Pay rent"})
	assert.False(t, done.Loading)
	assert.Empty(t, done.NewTodoText)
	require.Len(t, done.Todos, 3)
	assert.Equal(t, "3", done.Todos[0].ID, "new todos are prepended")
	assert.Len(t, s.Todos, 2, "receiver is untouched")

	failed := next.CreateFailed()
	assert.Equal(t, MsgAddFailed, failed.Error)
	assert.Equal(t, "  Pay rent ", failed.NewTodoText, "draft survives failure")
	assert.Len(t, failed.Todos, 2)
}

func TestEmptyDraftGuard(t *testing.T) {
	for _, draft := range []string{"", "   ", "\t\n"} {
		s := sample().SetDraft(draft)
		next, _, ok := s.StartSubmit()
		assert.False(t, ok)
		assert.Equal(t, s, next)

		editing := sample().BeginEdit("1").SetEditDraft(draft)
		after, _, _, ok := editing.StartSaveEdit()
		assert.False(t, ok)
		assert.Equal(t, editing, after)
	}
}

func TestToggle(t *testing.T) {
	s := sample()

	next, patch, ok := s.StartToggle("1")
	require.True(t, ok)
	require.NotNil(t, patch.Completed)
	assert.True(t, *patch.Completed)
	assert.Nil(t, patch.Text)

	// The server's response wins, even if it disagrees with the request.
	server := client.Todo{ID: "1", Text: "Buy oat milk", Completed: true}
	done := next.Updated(server)
	assert.Equal(t, server, done.Todos[0])
	assert.False(t, done.Loading)
	assert.False(t, s.Todos[0].Completed, "receiver's slice is not shared")

	failed := next.UpdateFailed()
	assert.Equal(t, MsgUpdateFailed, failed.Error)
	assert.False(t, failed.Todos[0].Completed)

	_, patch, ok = s.StartToggle("2")
	require.True(t, ok)
	assert.False(t, *patch.Completed)

	_, _, ok = s.StartToggle("404")
	assert.False(t, ok)
}

func TestEdit(t *testing.T) {
	s := sample().BeginEdit("2")
	assert.True(t, s.Editing())
	assert.Equal(t, "2", s.EditingID)
	assert.Equal(t, "Walk dog", s.EditingText)
	assert.False(t, s.Loading, "beginning an edit is local")

	s = s.SetEditDraft("Walk the dog ")
	next, id, patch, ok := s.StartSaveEdit()
	require.True(t, ok)
	assert.Equal(t, "2", id)
	require.NotNil(t, patch.Text)
	assert.Equal(t, "Walk the dog", *patch.Text)
	assert.Nil(t, patch.Completed)

	saved := next.EditSaved(client.Todo{ID: "2", Text: "Walk the dog", Completed: true})
	assert.False(t, saved.Editing())
	assert.Empty(t, saved.EditingText)
	assert.Equal(t, "Walk the dog", saved.Todos[1].Text)

	failed := next.UpdateFailed()
	assert.True(t, failed.Editing(), "edit stays open after a failed save")
	assert.Equal(t, "Walk the dog ", failed.EditingText)
}

func TestCancelEdit(t *testing.T) {
	s := sample().BeginEdit("1").SetEditDraft("changed").CancelEdit()
	assert.False(t, s.Editing())
	assert.Empty(t, s.EditingText)
	assert.Equal(t, "Buy milk", s.Todos[0].Text)
}

func TestBeginEdit_Unknown(t *testing.T) {
	s := sample()
	assert.Equal(t, s, s.BeginEdit("nope"))
	assert.Equal(t, s, s.SetEditDraft("no edit open"))
}

func TestDelete(t *testing.T) {
	s := sample().BeginEdit("1")

	next, ok := s.StartDelete("1")
	require.True(t, ok)
	assert.True(t, next.Loading)

	done := next.Deleted("1")
	require.Len(t, done.Todos, 1)
	assert.Equal(t, "2", done.Todos[0].ID)
	assert.False(t, done.Editing(), "deleting the edited todo closes the edit")
	assert.Len(t, s.Todos, 2)

	failed := next.DeleteFailed()
	assert.Equal(t, MsgDeleteFailed, failed.Error)
	assert.Len(t, failed.Todos, 2)

	_, ok = s.StartDelete("404")
	assert.False(t, ok)
}

func TestLoadingBlocksInteraction(t *testing.T) {
	s, ok := sample().SetDraft("draft").StartLoad()
	require.True(t, ok)

	_, _, ok = s.StartSubmit()
	assert.False(t, ok)
	_, _, ok = s.StartToggle("1")
	assert.False(t, ok)
	_, ok = s.StartDelete("1")
	assert.False(t, ok)
	assert.Equal(t, s, s.BeginEdit("1"))
	assert.Equal(t, s, s.SetDraft("other"))
	assert.Equal(t, s, s.CancelEdit())
}
