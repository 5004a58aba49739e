package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/limarket/marketplace/internal/domain/models"
)

// CatalogStorage отдаёт дерево категорий каталога.
type CatalogStorage interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
}

type catalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) CatalogStorage {
	return &catalogRepository{db: db}
}

// GetCategories читает плоскую таблицу категорий (id, name, parent_id)
// и собирает её в дерево.
func (r *catalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, parent_id FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	type flat struct {
		category models.Category
		parentID sql.NullInt64
	}
	var all []flat
	for rows.Next() {
		var f flat
		if err := rows.Scan(&f.category.ID, &f.category.Name, &f.parentID); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		all = append(all, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children := make(map[int64][]int64)
	byID := make(map[int64]*models.Category, len(all))
	var rootIDs []int64
	for i := range all {
		byID[all[i].category.ID] = &all[i].category
		if all[i].parentID.Valid {
			children[all[i].parentID.Int64] = append(children[all[i].parentID.Int64], all[i].category.ID)
		} else {
			rootIDs = append(rootIDs, all[i].category.ID)
		}
	}

	var build func(id int64) models.Category
	build = func(id int64) models.Category {
		node := *byID[id]
		ids := children[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, childID := range ids {
			node.Subcategories = append(node.Subcategories, build(childID))
		}
		return node
	}

	roots := make([]models.Category, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, build(id))
	}
	return roots, nil
}
