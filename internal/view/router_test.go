package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balalaika/internal/domain"
	"balalaika/internal/view"
)

var signedIn = domain.Authenticated{Profile: domain.User{ID: "u1", Email: "admin@balalaikas.test"}}

func TestTransitions(t *testing.T) {
	allowed := [][2]view.Kind{
		{view.KindLanding, view.KindClient},
		{view.KindClient, view.KindAdmin},
		{view.KindAdmin, view.KindClient},
		{view.KindClient, view.KindAbout},
		{view.KindClient, view.KindShipping},
		{view.KindAbout, view.KindClient},
		{view.KindShipping, view.KindClient},
	}
	for _, tr := range allowed {
		assert.True(t, view.Allowed(tr[0], tr[1]), "%v -> %v", tr[0], tr[1])
	}

	denied := [][2]view.Kind{
		{view.KindLanding, view.KindAdmin},
		{view.KindAbout, view.KindShipping},
		{view.KindAdmin, view.KindAbout},
		{view.KindClient, view.KindLanding},
	}
	for _, tr := range denied {
		assert.False(t, view.Allowed(tr[0], tr[1]), "%v -> %v", tr[0], tr[1])
	}
}

func TestGoResolvesAdminBySession(t *testing.T) {
	m, err := view.Go(view.Client{}, view.KindAdmin, view.TabCategories, domain.Anonymous{})
	require.NoError(t, err)
	assert.Equal(t, view.Admin{Page: view.Login{}}, m)

	m, err = view.Go(view.Client{}, view.KindAdmin, view.TabCategories, signedIn)
	require.NoError(t, err)
	assert.Equal(t, view.Admin{Page: view.Dashboard{Tab: view.TabCategories}}, m)

	m, err = view.Go(view.Landing{}, view.KindAdmin, view.TabProducts, signedIn)
	assert.ErrorIs(t, err, view.ErrTransition)
	assert.Equal(t, view.Landing{}, m)
}

func TestResolveAndPath(t *testing.T) {
	for _, path := range []string{"/", "/catalog", "/about", "/shipping", "/admin"} {
		m, ok := view.Resolve(path, "", signedIn)
		require.True(t, ok, path)
		assert.Equal(t, path, view.Path(m))
	}

	m, ok := view.Resolve("/admin", "categories", signedIn)
	require.True(t, ok)
	assert.Equal(t, "/admin?tab=categories", view.Path(m))

	m, _ = view.Resolve("/admin", "categories", domain.Anonymous{})
	assert.Equal(t, view.Admin{Page: view.Login{}}, m)

	_, ok = view.Resolve("/product/1", "", nil)
	assert.False(t, ok)
}

func TestNav(t *testing.T) {
	links := view.Nav(view.Client{}, domain.Anonymous{})
	var hrefs []string
	for _, l := range links {
		hrefs = append(hrefs, l.Href)
	}
	assert.Equal(t, []string{"/about", "/shipping", "/admin"}, hrefs)

	links = view.Nav(view.About{}, domain.Anonymous{})
	require.Len(t, links, 1)
	assert.Equal(t, "/catalog", links[0].Href)
}
