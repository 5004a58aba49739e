package service_test

import (
	"context"
	"testing"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeCatalogRepo struct {
	categories []models.Category
}

var _ storage.CatalogStorage = (*fakeCatalogRepo)(nil)

func (f *fakeCatalogRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func catalogFixture() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Электроника", Subcategories: []models.Category{
			{ID: 4, Name: "Смартфоны"},
			{ID: 5, Name: "Ноутбуки"},
		}},
		{ID: 2, Name: "Одежда"},
	}
}

func TestGetCategories(t *testing.T) {
	svc := service.NewCatalogService(testLogger(), &fakeCatalogRepo{categories: catalogFixture()})

	categories, err := svc.GetCategories(context.Background())
	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Len(t, categories[0].Subcategories, 2)
}

func TestGetCategory(t *testing.T) {
	svc := service.NewCatalogService(testLogger(), &fakeCatalogRepo{categories: catalogFixture()})

	// Поиск работает и по вложенным узлам дерева
	category, err := svc.GetCategory(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "Ноутбуки", category.Name)

	_, err = svc.GetCategory(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}
