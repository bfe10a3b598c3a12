// Package catalog filters and orders the product list for the storefront and
// the admin grid. Everything here is pure and cheap enough to run on every
// request.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"balalaika/internal/domain"
)

// Filters is the current selection. Empty fields behave like domain.All.
type Filters struct {
	Text          string
	CategoryID    string
	SubCategoryID string
	Gender        string
}

func active(v string) bool { return v != "" && v != domain.All }

// Match reports whether p satisfies every active predicate of f.
func (f Filters) Match(p domain.Product) bool {
	if q := strings.ToLower(f.Text); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if active(f.CategoryID) && p.CategoryID != f.CategoryID {
		return false
	}
	if active(f.SubCategoryID) && p.SubCategoryID != f.SubCategoryID {
		return false
	}
	if active(f.Gender) && p.Gender != f.Gender {
		return false
	}
	return true
}

// Apply returns the visible products: featured first, then by name using
// Spanish collation. The input slice is not modified.
func Apply(products []domain.Product, f Filters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	// Collators keep scratch buffers and are not safe for concurrent use.
	col := collate.New(language.Spanish)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
	return out
}

// ApplyAdmin is the dashboard grid filter: text matches name or brand only,
// gender is ignored and storage order is kept.
func ApplyAdmin(products []domain.Product, f Filters) []domain.Product {
	q := strings.ToLower(f.Text)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Brand), q) {
			continue
		}
		if active(f.CategoryID) && p.CategoryID != f.CategoryID {
			continue
		}
		if active(f.SubCategoryID) && p.SubCategoryID != f.SubCategoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SubCategoryOptions lists the brands offered for categoryID; none when no
// category is selected.
func SubCategoryOptions(subs []domain.SubCategory, categoryID string) []domain.SubCategory {
	out := []domain.SubCategory{}
	if !active(categoryID) {
		return out
	}
	for _, s := range subs {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}
