package domain

import "github.com/shopspring/decimal"

// All is the filter value meaning "no restriction".
const All = "ALL"

// Collection names as exposed to live subscribers.
type Collection string

const (
	Categories    Collection = "categories"
	SubCategories Collection = "subCategories"
	Products      Collection = "products"
)

const (
	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
	GenderUnisex = "Unisex"
)

// Genders lists the values offered by the catalog gender filter.
var Genders = []string{GenderMale, GenderFemale, GenderUnisex}

// Category is an origin grouping (Arabes, Italianos...).
type Category struct {
	ID   string `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}

// SubCategory is a brand nested under an origin.
type SubCategory struct {
	ID         string `db:"id"          json:"id"`
	CategoryID string `db:"category_id" json:"categoryId"`
	Name       string `db:"name"        json:"name"`
}

type Product struct {
	ID            string  `db:"id"              json:"id"`
	Name          string  `db:"name"            json:"name"`
	Brand         string  `db:"brand"           json:"brand"`
	Description   string  `db:"description"     json:"description"`
	Price         float64 `db:"price"           json:"price"`
	PriceCordobas float64 `db:"price_cordobas"  json:"priceCordobas,omitempty"`
	ImageURL      string  `db:"image_url"       json:"imageUrl"`
	CategoryID    string  `db:"category_id"     json:"categoryId"`
	SubCategoryID string  `db:"sub_category_id" json:"subCategoryId"`
	Featured      bool    `db:"featured"        json:"featured,omitempty"`
	OutOfStock    bool    `db:"out_of_stock"    json:"outOfStock,omitempty"`
	Discount      float64 `db:"discount"        json:"discount,omitempty"`
	Gender        string  `db:"gender"          json:"gender,omitempty"`
}

// ClampDiscount bounds a discount percentage to [0,100].
func ClampDiscount(d float64) float64 {
	switch {
	case d < 0:
		return 0
	case d > 100:
		return 100
	}
	return d
}

// HasDiscount reports whether a sale price differs from the list price.
func (p Product) HasDiscount() bool { return ClampDiscount(p.Discount) > 0 }

// SalePrice is price * (1 - discount/100), rounded to cents.
func (p Product) SalePrice() decimal.Decimal { return discounted(p.Price, p.Discount) }

// SalePriceCordobas applies the same discount to the córdoba price.
func (p Product) SalePriceCordobas() decimal.Decimal { return discounted(p.PriceCordobas, p.Discount) }

func discounted(price, discount float64) decimal.Decimal {
	amount := decimal.NewFromFloat(price)
	d := ClampDiscount(discount)
	if d > 0 {
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(d).Div(decimal.NewFromInt(100)))
		amount = amount.Mul(factor)
	}
	return amount.Round(2)
}
