package catalog

import "balalaika/internal/domain"

// Selection is the filter state behind the catalog sidebar.
type Selection struct {
	Filters
}

func NewSelection() Selection {
	return Selection{Filters{CategoryID: domain.All, SubCategoryID: domain.All, Gender: domain.All}}
}

func orAll(v string) string {
	if v == "" {
		return domain.All
	}
	return v
}

// SelectCategory switches origin and clears the brand, which may not belong to it.
func (s *Selection) SelectCategory(id string) {
	s.CategoryID = orAll(id)
	s.SubCategoryID = domain.All
}

func (s *Selection) SelectSubCategory(id string) { s.SubCategoryID = orAll(id) }

func (s *Selection) SelectGender(g string) { s.Gender = orAll(g) }

func (s *Selection) SetText(q string) { s.Text = q }

// Normalize drops a brand selection that is not among the options of the
// selected origin, e.g. from a hand-edited URL.
func (s *Selection) Normalize(subs []domain.SubCategory) {
	if !active(s.SubCategoryID) {
		return
	}
	for _, o := range SubCategoryOptions(subs, s.CategoryID) {
		if o.ID == s.SubCategoryID {
			return
		}
	}
	s.SubCategoryID = domain.All
}
