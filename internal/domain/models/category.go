package models

// Category — узел дерева каталога. Подкатегории вложены рекурсивно.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// FindCategory рекурсивно ищет категорию по идентификатору во всём дереве.
func FindCategory(categories []Category, id int64) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
		if found := FindCategory(categories[i].Subcategories, id); found != nil {
			return found
		}
	}
	return nil
}
