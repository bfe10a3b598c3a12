package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balalaika/internal/domain"
	"balalaika/internal/services"
)

type recordingWriter struct {
	created []domain.Product
	updated []domain.Product
	err     error
}

func (w *recordingWriter) CreateProduct(_ context.Context, p domain.Product) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.created = append(w.created, p)
	return "new-id", nil
}

func (w *recordingWriter) UpdateProduct(_ context.Context, p domain.Product) error {
	if w.err != nil {
		return w.err
	}
	w.updated = append(w.updated, p)
	return nil
}

func TestEditorCreateFlow(t *testing.T) {
	var e services.ProductEditor
	w := &recordingWriter{}
	ctx := context.Background()

	assert.Equal(t, services.EditorClosed, e.Mode())
	assert.ErrorIs(t, e.Submit(ctx, w, domain.Product{Name: "x"}), services.ErrEditorState)

	require.NoError(t, e.OpenCreate())
	assert.Equal(t, services.EditorCreating, e.Mode())
	assert.ErrorIs(t, e.OpenCreate(), services.ErrEditorState)

	require.NoError(t, e.Submit(ctx, w, domain.Product{Name: "Oud Royal"}))
	assert.Equal(t, services.EditorClosed, e.Mode())
	require.Len(t, w.created, 1)
	assert.Equal(t, "Oud Royal", w.created[0].Name)
}

func TestEditorStaysOpenOnFailure(t *testing.T) {
	var e services.ProductEditor
	w := &recordingWriter{err: errors.New("boom")}
	orig := domain.Product{ID: "p-asad", Name: "Asad"}

	require.NoError(t, e.OpenEdit(orig))
	assert.Equal(t, "Asad", e.Draft.Name)

	err := e.Submit(context.Background(), w, domain.Product{ID: "other", Name: "Asad 2"})
	require.Error(t, err)
	assert.True(t, e.Open())
	assert.Equal(t, services.EditorEditing, e.Mode())
	assert.Equal(t, "Asad 2", e.Draft.Name)
	assert.Equal(t, "p-asad", e.Draft.ID)

	w.err = nil
	require.NoError(t, e.Submit(context.Background(), w, domain.Product{ID: "other", Name: "Asad 3"}))
	require.Len(t, w.updated, 1)
	assert.Equal(t, "p-asad", w.updated[0].ID, "edited id is kept")
	assert.False(t, e.Open())
}

func TestEditorCancel(t *testing.T) {
	var e services.ProductEditor
	require.NoError(t, e.OpenEdit(domain.Product{ID: "p1"}))
	e.Cancel()
	assert.Equal(t, services.EditorClosed, e.Mode())
	assert.Empty(t, e.Draft.ID)
}

func TestInlineEdit(t *testing.T) {
	var calls [][2]string
	rename := func(_ context.Context, id, name string) error {
		calls = append(calls, [2]string{id, name})
		return nil
	}
	ctx := context.Background()

	var e services.InlineEdit
	e.Begin("cat-arabes", "Arabes")
	e.SetName("Árabes")
	e.Cancel()
	assert.False(t, e.Editing())
	assert.Empty(t, calls, "cancel never writes")

	e.Begin("cat-arabes", "Arabes")
	assert.True(t, e.Is("cat-arabes"))
	e.SetName(" Árabes ")
	require.NoError(t, e.Save(ctx, rename))
	assert.False(t, e.Editing())
	assert.Equal(t, [][2]string{{"cat-arabes", "Árabes"}}, calls)

	assert.ErrorIs(t, e.Save(ctx, rename), services.ErrEditorState)
}

func TestInlineEditKeepsModeOnError(t *testing.T) {
	var e services.InlineEdit
	e.Begin("sub-armaf", "Armaf")
	err := e.Save(context.Background(), func(context.Context, string, string) error { return errors.New("offline") })
	require.Error(t, err)
	assert.True(t, e.Is("sub-armaf"))
	assert.Equal(t, "Armaf", e.Name())
}
