package domain

import "time"

// Todo is the single record the application manages. ID is assigned by the
// store on creation and is opaque to every layer above the repository.
type Todo struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoFilter narrows a listing. A nil field means "don't filter on it".
type TodoFilter struct {
	Completed *bool
}

// Matches reports whether t passes the filter.
func (f TodoFilter) Matches(t Todo) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// TodoPatch is a partial update. Only non-nil fields are written.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply writes the present fields onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
