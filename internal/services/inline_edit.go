package services

import (
	"context"
	"strings"
)

// RenameFunc commits a partial name update.
type RenameFunc func(ctx context.Context, id, name string) error

// InlineEdit is the rename-in-place row of the categories tab. It holds a
// shadow copy of {id, name} until Save or Cancel.
type InlineEdit struct {
	id      string
	name    string
	editing bool
}

func (e *InlineEdit) Begin(id, name string) {
	e.id, e.name, e.editing = id, name, true
}

func (e *InlineEdit) Editing() bool { return e.editing }

// Is reports whether id is the row being edited.
func (e *InlineEdit) Is(id string) bool { return e.editing && e.id == id }

func (e *InlineEdit) ID() string   { return e.id }
func (e *InlineEdit) Name() string { return e.name }

func (e *InlineEdit) SetName(name string) {
	if e.editing {
		e.name = name
	}
}

// Save commits the shadow copy and leaves edit mode. On error edit mode is kept.
func (e *InlineEdit) Save(ctx context.Context, rename RenameFunc) error {
	if !e.editing {
		return ErrEditorState
	}
	if err := rename(ctx, e.id, strings.TrimSpace(e.name)); err != nil {
		return err
	}
	e.Cancel()
	return nil
}

// Cancel drops the shadow copy without writing.
func (e *InlineEdit) Cancel() {
	e.id, e.name, e.editing = "", "", false
}
