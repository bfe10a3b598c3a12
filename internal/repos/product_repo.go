package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"balalaika/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, name, brand, description, price, price_cordobas, image_url,
    category_id, sub_category_id, featured, out_of_stock, discount, gender`

// List returns every product in storage order; callers sort.
func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY rowid`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, notFound(err)
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO products(`+productCols+`)
	  VALUES(:id, :name, :brand, :description, :price, :price_cordobas, :image_url,
	         :category_id, :sub_category_id, :featured, :out_of_stock, :discount, :gender)
	`, p)
	return err
}

// Update overwrites every stored field of p.ID.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.NamedExec(`
	  UPDATE products SET
	    name = :name, brand = :brand, description = :description,
	    price = :price, price_cordobas = :price_cordobas, image_url = :image_url,
	    category_id = :category_id, sub_category_id = :sub_category_id,
	    featured = :featured, out_of_stock = :out_of_stock, discount = :discount,
	    gender = :gender, updated_at = CURRENT_TIMESTAMP
	  WHERE id = :id
	`, p)
	return affected(res, err)
}

// SetOutOfStock is a partial update of the stock flag only.
func (r *ProductRepo) SetOutOfStock(id string, outOfStock bool) error {
	res, err := r.db.Exec(`UPDATE products SET out_of_stock = ? WHERE id = ?`, outOfStock, id)
	return affected(res, err)
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
