package repos

import (
	"github.com/jmoiron/sqlx"

	"balalaika/internal/domain"
)

type SubCategoryRepo struct{ db *sqlx.DB }

func NewSubCategoryRepo(db *sqlx.DB) *SubCategoryRepo { return &SubCategoryRepo{db: db} }

func (r *SubCategoryRepo) List() ([]domain.SubCategory, error) {
	out := []domain.SubCategory{}
	err := r.db.Select(&out, `SELECT id, category_id, name FROM sub_categories ORDER BY name`)
	return out, err
}

func (r *SubCategoryRepo) Get(id string) (domain.SubCategory, error) {
	var s domain.SubCategory
	err := r.db.Get(&s, `SELECT id, category_id, name FROM sub_categories WHERE id = ?`, id)
	return s, notFound(err)
}

func (r *SubCategoryRepo) Create(s domain.SubCategory) error {
	_, err := r.db.Exec(`INSERT INTO sub_categories(id, category_id, name) VALUES(?, ?, ?)`, s.ID, s.CategoryID, s.Name)
	return err
}

func (r *SubCategoryRepo) Rename(id, name string) error {
	res, err := r.db.Exec(`UPDATE sub_categories SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	return affected(res, err)
}

func (r *SubCategoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM sub_categories WHERE id = ?`, id)
	return err
}
