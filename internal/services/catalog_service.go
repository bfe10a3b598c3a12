package services

import (
	"errors"

	"balalaika/internal/catalog"
	"balalaika/internal/domain"
	"balalaika/internal/store"
)

var (
	ErrNoProduct  = errors.New("product not found")
	ErrOutOfStock = errors.New("product is out of stock")
)

// CatalogService derives storefront and dashboard views from the store.
type CatalogService struct {
	Store   *store.Store
	Contact string
}

func NewCatalogService(st *store.Store, contact string) *CatalogService {
	return &CatalogService{Store: st, Contact: contact}
}

// Card is a product as shown on a catalog tile.
type Card struct {
	domain.Product
	Origin string
	Link   string
}

// Listing is one render of the storefront grid and sidebar.
type Listing struct {
	Selection     catalog.Selection
	Cards         []Card
	Categories    []domain.Category
	SubCategories []domain.SubCategory
	Genders       []string
	Loaded        bool
}

// Browse normalizes sel against the current sub-categories and applies it.
func (s *CatalogService) Browse(sel catalog.Selection) Listing {
	st := s.Store.State()
	sel.Normalize(st.SubCategories)
	products := catalog.Apply(st.Products, sel.Filters)
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, s.card(st, p))
	}
	return Listing{
		Selection:     sel,
		Cards:         cards,
		Categories:    st.Categories,
		SubCategories: catalog.SubCategoryOptions(st.SubCategories, sel.CategoryID),
		Genders:       domain.Genders,
		Loaded:        st.Loaded,
	}
}

// Featured returns the featured products for the landing page.
func (s *CatalogService) Featured(limit int) []Card {
	st := s.Store.State()
	var out []Card
	for _, p := range catalog.Apply(st.Products, catalog.Filters{}) {
		if !p.Featured || len(out) == limit {
			break
		}
		out = append(out, s.card(st, p))
	}
	return out
}

// AdminProducts is the dashboard grid.
func (s *CatalogService) AdminProducts(f catalog.Filters) ([]Card, store.State) {
	st := s.Store.State()
	products := catalog.ApplyAdmin(st.Products, f)
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, s.card(st, p))
	}
	return cards, st
}

func (s *CatalogService) card(st store.State, p domain.Product) Card {
	return Card{Product: p, Origin: st.CategoryName(p.CategoryID), Link: catalog.PurchaseLink(s.Contact, p)}
}

func (s *CatalogService) Product(id string) (domain.Product, bool) {
	return s.Store.State().Product(id)
}

// BuyLink is the chat deep link for product id.
func (s *CatalogService) BuyLink(id string) (string, error) {
	p, ok := s.Product(id)
	if !ok {
		return "", ErrNoProduct
	}
	link := catalog.PurchaseLink(s.Contact, p)
	if link == "" {
		return "", ErrOutOfStock
	}
	return link, nil
}
