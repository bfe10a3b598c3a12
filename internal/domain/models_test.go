package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"balalaika/internal/domain"
)

func TestSalePrice(t *testing.T) {
	p := domain.Product{Price: 100, Discount: 15}
	assert.Equal(t, "85.00", p.SalePrice().StringFixed(2))
	assert.True(t, p.HasDiscount())

	p.Discount = 0
	assert.Equal(t, "100.00", p.SalePrice().StringFixed(2))
	assert.False(t, p.HasDiscount())

	unset := domain.Product{Price: 42.5}
	assert.Equal(t, "42.50", unset.SalePrice().StringFixed(2))
}

func TestSalePriceClampsDiscount(t *testing.T) {
	assert.Equal(t, "0.00", domain.Product{Price: 80, Discount: 150}.SalePrice().StringFixed(2))
	assert.Equal(t, "80.00", domain.Product{Price: 80, Discount: -5}.SalePrice().StringFixed(2))
	assert.Equal(t, 100.0, domain.ClampDiscount(101))
	assert.Equal(t, 0.0, domain.ClampDiscount(-1))
}

func TestSalePriceCordobas(t *testing.T) {
	p := domain.Product{Price: 50, PriceCordobas: 1850, Discount: 10}
	assert.Equal(t, "1665.00", p.SalePriceCordobas().StringFixed(2))
}

func TestSignedIn(t *testing.T) {
	_, ok := domain.SignedIn(domain.Anonymous{})
	assert.False(t, ok)
	_, ok = domain.SignedIn(nil)
	assert.False(t, ok)

	u, ok := domain.SignedIn(domain.Authenticated{Profile: domain.User{ID: "u1", Email: "a@b.co"}})
	assert.True(t, ok)
	assert.Equal(t, "u1", u.ID)
}
