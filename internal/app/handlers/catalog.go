package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/limarket/marketplace/internal/service"
)

// GetCategoriesHandler обрабатывает GET /api/categories: дерево категорий каталога.
func GetCategoriesHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCategoriesHandler"
		logger := log.With(slog.String("op", op))

		categories, err := catalogService.GetCategories(r.Context())
		if err != nil {
			logger.Error("failed to get categories", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

// GetCategoryHandler обрабатывает GET /api/categories/{categoryID}: узел дерева
// вместе с его подкатегориями.
func GetCategoryHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}

		category, err := catalogService.GetCategory(r.Context(), id)
		if err != nil {
			logger.Error("failed to get category", slog.Any("error", err))
			if errors.Is(err, service.ErrCategoryNotFound) {
				writeError(w, http.StatusNotFound, "Категория не найдена")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}
