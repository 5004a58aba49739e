package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/storage"
)

var ErrCategoryNotFound = errors.New("category not found")

// CatalogService отдаёт дерево категорий и ищет категорию по идентификатору.
type CatalogService interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
}

type catalogService struct {
	log         *slog.Logger
	catalogRepo storage.CatalogStorage
}

func NewCatalogService(log *slog.Logger, catalogRepo storage.CatalogStorage) CatalogService {
	return &catalogService{
		log:         log,
		catalogRepo: catalogRepo,
	}
}

func (s *catalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service.CatalogService.GetCategories"

	categories, err := s.catalogRepo.GetCategories(ctx)
	if err != nil {
		s.log.Error("failed to get categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get categories: %w", op, err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	const op = "service.CatalogService.GetCategory"

	categories, err := s.catalogRepo.GetCategories(ctx)
	if err != nil {
		s.log.Error("failed to get categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get categories: %w", op, err)
	}
	category := models.FindCategory(categories, id)
	if category == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}
	return category, nil
}
