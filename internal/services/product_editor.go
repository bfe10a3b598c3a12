package services

import (
	"context"
	"errors"

	"balalaika/internal/domain"
)

// EditorMode is the state of the product edit modal.
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreating
	EditorEditing
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreating:
		return "creating"
	case EditorEditing:
		return "editing"
	}
	return "closed"
}

var ErrEditorState = errors.New("product editor is not in the required state")

// ProductWriter is what the editor needs to commit a draft.
type ProductWriter interface {
	CreateProduct(ctx context.Context, p domain.Product) (string, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
}

// ProductEditor is the create/edit modal. Closed opens into creating or
// editing; an open editor closes on Cancel or a successful Submit and stays
// open on any error.
type ProductEditor struct {
	mode  EditorMode
	Draft domain.Product
	Err   error
}

func (e *ProductEditor) Mode() EditorMode { return e.mode }
func (e *ProductEditor) Open() bool       { return e.mode != EditorClosed }

func (e *ProductEditor) OpenCreate() error {
	if e.mode != EditorClosed {
		return ErrEditorState
	}
	e.mode, e.Draft, e.Err = EditorCreating, domain.Product{}, nil
	return nil
}

// OpenEdit opens the modal prefilled with p.
func (e *ProductEditor) OpenEdit(p domain.Product) error {
	if e.mode != EditorClosed {
		return ErrEditorState
	}
	e.mode, e.Draft, e.Err = EditorEditing, p, nil
	return nil
}

func (e *ProductEditor) Cancel() {
	e.mode, e.Draft, e.Err = EditorClosed, domain.Product{}, nil
}

// Submit commits draft. While editing, the id of the opened product is kept
// regardless of what draft carries.
func (e *ProductEditor) Submit(ctx context.Context, w ProductWriter, draft domain.Product) error {
	var err error
	switch e.mode {
	case EditorCreating:
		draft.ID, err = w.CreateProduct(ctx, draft)
	case EditorEditing:
		draft.ID = e.Draft.ID
		err = w.UpdateProduct(ctx, draft)
	default:
		return ErrEditorState
	}
	if err != nil {
		e.Draft, e.Err = draft, err
		return err
	}
	e.Cancel()
	return nil
}
