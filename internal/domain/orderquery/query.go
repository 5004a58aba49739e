package orderquery

import (
	"sort"
	"strings"
	"time"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/status"
)

// SearchMode определяет, по каким полям работает текстовый поиск:
// список заказов пункта выдачи ищет по номеру заказа и названиям товаров,
// история заказов в профиле — по адресу пункта выдачи.
type SearchMode int

const (
	SearchByIDAndProduct SearchMode = iota
	SearchByPickupAddress
)

// Sort — направление сортировки по дате создания.
type Sort int

const (
	SortDesc Sort = iota // сначала новые
	SortAsc
)

// Filters — параметры выборки. Незаполненное поле не накладывает ограничений,
// заполненные комбинируются по И.
type Filters struct {
	Statuses    []status.Status
	DateFrom    *time.Time // включительно
	DateTo      *time.Time // включительно
	SearchQuery string
}

// Query отбирает и сортирует заказы по фильтрам. Функция чистая: входной срез
// не меняется, повторный вызов с теми же аргументами даёт тот же результат.
// Заказ проходит фильтр по статусу, если хотя бы одна позиция попала в набор.
// Сортировка по дате создания стабильная: равные даты сохраняют исходный порядок.
func Query(orders []models.Order, f Filters, mode SearchMode, dir Sort) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if matches(&order, f, mode) {
			out = append(out, order)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Active возвращает заказы, у которых хотя бы одна позиция ещё в пути.
func Active(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.IsActive() {
			out = append(out, order)
		}
	}
	return out
}

// History возвращает завершённые заказы — дополнение к Active.
func History(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if !order.IsActive() {
			out = append(out, order)
		}
	}
	return out
}

func matches(order *models.Order, f Filters, mode SearchMode) bool {
	if len(f.Statuses) > 0 && !matchesStatus(order, f.Statuses) {
		return false
	}
	if f.DateFrom != nil && order.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && order.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.SearchQuery != "" && !matchesQuery(order, f.SearchQuery, mode) {
		return false
	}
	return true
}

func matchesStatus(order *models.Order, statuses []status.Status) bool {
	for _, item := range order.Items {
		for _, s := range statuses {
			if item.ItemStatus == s {
				return true
			}
		}
	}
	return false
}

func matchesQuery(order *models.Order, query string, mode SearchMode) bool {
	q := strings.ToLower(query)
	switch mode {
	case SearchByPickupAddress:
		return strings.Contains(strings.ToLower(order.PickupPointAddress), q)
	default:
		if strings.Contains(strings.ToLower(order.ID), q) {
			return true
		}
		for _, item := range order.Items {
			if item.ProductName != "" && strings.Contains(strings.ToLower(item.ProductName), q) {
				return true
			}
		}
		return false
	}
}
