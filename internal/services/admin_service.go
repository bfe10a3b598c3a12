package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"balalaika/internal/domain"
	"balalaika/internal/metrics"
	"balalaika/internal/repos"
)

var (
	// ErrInvalid marks a form that failed local validation; no write was attempted.
	ErrInvalid = errors.New("invalid input")
	// ErrNotConfirmed is returned by deletes that were not explicitly confirmed.
	ErrNotConfirmed = errors.New("delete not confirmed")
)

// GenericBrand is stored when neither a sub-category nor a typed brand is given.
const GenericBrand = "Generic"

func invalid(field string) error { return fmt.Errorf("%w: %s", ErrInvalid, field) }

// Writer is the backend surface used by the admin dashboard. SubCategory
// reads the committed document, not the possibly lagging live snapshot.
type Writer interface {
	SubCategory(ctx context.Context, id string) (domain.SubCategory, error)
	AddCategory(ctx context.Context, name string) (string, error)
	RenameCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
	AddSubCategory(ctx context.Context, categoryID, name string) (string, error)
	RenameSubCategory(ctx context.Context, id, name string) error
	DeleteSubCategory(ctx context.Context, id string) error
	AddProduct(ctx context.Context, p domain.Product) (string, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	SetProductStock(ctx context.Context, id string, outOfStock bool) error
	DeleteProduct(ctx context.Context, id string) error
}

// AdminService validates dashboard input and forwards it to the backend.
// It never touches the store; the resulting snapshot arrives through the
// watcher like any other change.
type AdminService struct {
	W Writer
}

func NewAdminService(w Writer) *AdminService {
	return &AdminService{W: w}
}

func count(c domain.Collection, op string, err error) {
	if errors.Is(err, ErrInvalid) || errors.Is(err, ErrNotConfirmed) {
		return
	}
	metrics.AdminWrites.WithLabelValues(string(c), op, metrics.Result(err)).Inc()
}

func (s *AdminService) CreateCategory(ctx context.Context, name string) (id string, err error) {
	defer func() { count(domain.Categories, "create", err) }()
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name is required")
	}
	id, err = s.W.AddCategory(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

func (s *AdminService) RenameCategory(ctx context.Context, id, name string) (err error) {
	defer func() { count(domain.Categories, "rename", err) }()
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return invalid("name is required")
	}
	if err := s.W.RenameCategory(ctx, id, name); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// DeleteCategory removes the category only. Its sub-categories and products
// keep pointing at the missing id.
func (s *AdminService) DeleteCategory(ctx context.Context, id string, confirmed bool) (err error) {
	defer func() { count(domain.Categories, "delete", err) }()
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.W.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *AdminService) CreateSubCategory(ctx context.Context, categoryID, name string) (id string, err error) {
	defer func() { count(domain.SubCategories, "create", err) }()
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", invalid("name is required")
	case categoryID == "" || categoryID == domain.All:
		return "", invalid("category is required")
	}
	id, err = s.W.AddSubCategory(ctx, categoryID, name)
	if err != nil {
		return "", fmt.Errorf("create sub-category: %w", err)
	}
	return id, nil
}

func (s *AdminService) RenameSubCategory(ctx context.Context, id, name string) (err error) {
	defer func() { count(domain.SubCategories, "rename", err) }()
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return invalid("name is required")
	}
	if err := s.W.RenameSubCategory(ctx, id, name); err != nil {
		return fmt.Errorf("rename sub-category: %w", err)
	}
	return nil
}

func (s *AdminService) DeleteSubCategory(ctx context.Context, id string, confirmed bool) (err error) {
	defer func() { count(domain.SubCategories, "delete", err) }()
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.W.DeleteSubCategory(ctx, id); err != nil {
		return fmt.Errorf("delete sub-category: %w", err)
	}
	return nil
}

// prepare validates p and fills the derived fields.
func (s *AdminService) prepare(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return p, invalid("name is required")
	case p.CategoryID == "" || p.CategoryID == domain.All:
		return p, invalid("category is required")
	case p.Price < 0 || p.PriceCordobas < 0:
		return p, invalid("price must not be negative")
	}
	if p.SubCategoryID == domain.All {
		p.SubCategoryID = ""
	}
	p.Discount = domain.ClampDiscount(p.Discount)
	brand, err := s.brandFor(ctx, p)
	if err != nil {
		return p, err
	}
	p.Brand = brand
	return p, nil
}

// brandFor resolves the stored brand: the sub-category name wins over any
// typed brand, which in turn wins over GenericBrand. A dangling
// sub-category id falls through to the typed brand.
func (s *AdminService) brandFor(ctx context.Context, p domain.Product) (string, error) {
	if p.SubCategoryID != "" {
		sub, err := s.W.SubCategory(ctx, p.SubCategoryID)
		switch {
		case err == nil && sub.Name != "":
			return sub.Name, nil
		case err != nil && !errors.Is(err, repos.ErrNotFound):
			return "", fmt.Errorf("resolve brand: %w", err)
		}
	}
	if b := strings.TrimSpace(p.Brand); b != "" {
		return b, nil
	}
	return GenericBrand, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, p domain.Product) (id string, err error) {
	defer func() { count(domain.Products, "create", err) }()
	p, err = s.prepare(ctx, p)
	if err != nil {
		return "", err
	}
	id, err = s.W.AddProduct(ctx, p)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, p domain.Product) (err error) {
	defer func() { count(domain.Products, "update", err) }()
	if p.ID == "" {
		return invalid("id is required")
	}
	p, err = s.prepare(ctx, p)
	if err != nil {
		return err
	}
	if err := s.W.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ToggleStock flips p.OutOfStock with a partial update.
func (s *AdminService) ToggleStock(ctx context.Context, p domain.Product) (err error) {
	defer func() { count(domain.Products, "toggle_stock", err) }()
	if err := s.W.SetProductStock(ctx, p.ID, !p.OutOfStock); err != nil {
		return fmt.Errorf("toggle stock: %w", err)
	}
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string, confirmed bool) (err error) {
	defer func() { count(domain.Products, "delete", err) }()
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.W.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
