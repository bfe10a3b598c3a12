package catalog_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balalaika/internal/catalog"
	"balalaika/internal/domain"
)

func TestPurchaseLink(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Khamrah", Brand: "Lattafa", Price: 45, PriceCordobas: 1650}

	link := catalog.PurchaseLink("+505 8233-2792", p)
	require.True(t, strings.HasPrefix(link, "https://wa.me/50582332792?text="), link)
	assert.NotContains(t, link, "+", "spaces are percent-encoded")

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "Khamrah")
	assert.Contains(t, text, "Lattafa")
	assert.Equal(t,
		"Hola Balalaika's Perfums, estoy interesado en el perfume: Khamrah de la marca Lattafa. Precio: $45.00 / C$1650.00.",
		text)
}

func TestPurchaseMessageWithDiscount(t *testing.T) {
	p := domain.Product{Name: "Asad", Brand: "Lattafa", Price: 35, Discount: 15}
	msg := catalog.PurchaseMessage(p)
	assert.Contains(t, msg, "Precio: $29.75")
	assert.NotContains(t, msg, "C$")
	assert.True(t, strings.HasSuffix(msg, "(15% de descuento)."), msg)
}

func TestPurchaseLinkOutOfStock(t *testing.T) {
	p := domain.Product{Name: "Bright Crystal", Brand: "Versace", Price: 60, OutOfStock: true}
	assert.Empty(t, catalog.PurchaseLink("50582332792", p))
}
