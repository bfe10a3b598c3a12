package repos

import (
	"github.com/jmoiron/sqlx"

	"balalaika/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT id, name FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Create(c domain.Category) error {
	_, err := r.db.Exec(`INSERT INTO categories(id, name) VALUES(?, ?)`, c.ID, c.Name)
	return err
}

func (r *CategoryRepo) Rename(id, name string) error {
	res, err := r.db.Exec(`UPDATE categories SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	return affected(res, err)
}

// Delete removes only the category row; sub-categories and products keep their reference.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}
