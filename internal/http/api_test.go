package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Origin       string `json:"origin"`
	SalePrice    string `json:"salePrice"`
	PurchaseLink string `json:"purchaseLink"`
	OutOfStock   bool   `json:"outOfStock"`
}

type apiCatalog struct {
	Loaded   bool         `json:"loaded"`
	Products []apiProduct `json:"products"`
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPICatalog(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.get(t, "/api/v1/catalog?gender=Masculino", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out apiCatalog
	decode(t, resp, &out)

	assert.True(t, out.Loaded)
	require.Len(t, out.Products, 2)
	byID := map[string]apiProduct{}
	for _, p := range out.Products {
		byID[p.ID] = p
	}
	asad := byID["p-asad"]
	assert.Equal(t, "29.75", asad.SalePrice)
	assert.Equal(t, "Arabes", asad.Origin)
	assert.Contains(t, asad.PurchaseLink, "https://wa.me/")
	assert.Contains(t, byID, "p-club-de-nuit")

	resp = ta.get(t, "/api/v1/catalog?gender=Femenino", "")
	out = apiCatalog{}
	decode(t, resp, &out)
	require.Len(t, out.Products, 1)
	assert.True(t, out.Products[0].OutOfStock)
	assert.Empty(t, out.Products[0].PurchaseLink)
}

func TestAPISubCategories(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.get(t, "/api/v1/subcategories?category=cat-arabes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decode(t, resp, &subs)
	require.Len(t, subs, 2)
	var ids []string
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"sub-lattafa", "sub-armaf"}, ids)

	resp = ta.get(t, "/api/v1/subcategories?category=ALL", "")
	subs = nil
	decode(t, resp, &subs)
	assert.Empty(t, subs)

	resp = ta.get(t, "/api/v1/subcategories?category=%3Cx%3E", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIRejectsBadGender(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.get(t, "/api/v1/catalog?gender=Otro", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "invalid gender", body["error"])
}
