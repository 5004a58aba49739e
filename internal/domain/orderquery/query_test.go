package orderquery_test

import (
	"testing"
	"time"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/orderquery"
	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/stretchr/testify/assert"
)

func mkOrder(id string, createdAt time.Time, address string, statuses ...status.Status) models.Order {
	items := make([]models.OrderItem, 0, len(statuses))
	for i, s := range statuses {
		items = append(items, models.OrderItem{
			ID:          id + "-item-" + string(rune('a'+i)),
			ProductName: "Товар " + id,
			ItemStatus:  s,
		})
	}
	return models.Order{
		ID:                 id,
		PickupPointAddress: address,
		Items:              items,
		CreatedAt:          createdAt,
	}
}

func fixtureOrders() []models.Order {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return []models.Order{
		mkOrder("order1", base, "Ленина, 5, Москва", status.Delivered),
		mkOrder("order2", base.Add(24*time.Hour), "Мира, 12, Казань", status.InTransit, status.Cancelled),
		mkOrder("order3", base.Add(48*time.Hour), "Ленина, 5, Москва", status.Delivered, status.Refunded),
	}
}

func TestQuery_NoFilters_SortDesc(t *testing.T) {
	orders := fixtureOrders()

	got := orderquery.Query(orders, orderquery.Filters{}, orderquery.SearchByIDAndProduct, orderquery.SortDesc)
	assert.Len(t, got, 3)
	assert.Equal(t, "order3", got[0].ID)
	assert.Equal(t, "order1", got[2].ID)

	// Исходный срез не меняется
	assert.Equal(t, "order1", orders[0].ID)
}

func TestQuery_Idempotent(t *testing.T) {
	orders := fixtureOrders()
	f := orderquery.Filters{Statuses: []status.Status{status.Delivered}}

	first := orderquery.Query(orders, f, orderquery.SearchByIDAndProduct, orderquery.SortAsc)
	second := orderquery.Query(orders, f, orderquery.SearchByIDAndProduct, orderquery.SortAsc)
	assert.Equal(t, first, second)
}

func TestQuery_StatusFilter_AnyItem(t *testing.T) {
	orders := fixtureOrders()

	// Заказ проходит фильтр, если хотя бы одна позиция в нужном статусе
	got := orderquery.Query(orders, orderquery.Filters{
		Statuses: []status.Status{status.Delivered},
	}, orderquery.SearchByIDAndProduct, orderquery.SortAsc)

	assert.Len(t, got, 2)
	assert.Equal(t, "order1", got[0].ID)
	assert.Equal(t, "order3", got[1].ID)
}

func TestQuery_DateBoundsInclusive(t *testing.T) {
	orders := fixtureOrders()
	from := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC) // ровно момент order2

	got := orderquery.Query(orders, orderquery.Filters{DateFrom: &from},
		orderquery.SearchByIDAndProduct, orderquery.SortAsc)
	assert.Len(t, got, 2)
	assert.Equal(t, "order2", got[0].ID)

	// Мгновение до границы уже не проходит
	justBefore := from.Add(-time.Millisecond)
	orders[1].CreatedAt = justBefore
	got = orderquery.Query(orders, orderquery.Filters{DateFrom: &from},
		orderquery.SearchByIDAndProduct, orderquery.SortAsc)
	assert.Len(t, got, 1)
	assert.Equal(t, "order3", got[0].ID)
}

func TestQuery_DateTo(t *testing.T) {
	orders := fixtureOrders()
	to := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	got := orderquery.Query(orders, orderquery.Filters{DateTo: &to},
		orderquery.SearchByIDAndProduct, orderquery.SortAsc)
	assert.Len(t, got, 2)
	assert.Equal(t, "order1", got[0].ID)
	assert.Equal(t, "order2", got[1].ID)
}

func TestQuery_SearchByIDAndProduct(t *testing.T) {
	orders := fixtureOrders()

	got := orderquery.Query(orders, orderquery.Filters{SearchQuery: "ORDER1"},
		orderquery.SearchByIDAndProduct, orderquery.SortDesc)
	assert.Len(t, got, 1)
	assert.Equal(t, "order1", got[0].ID)

	// Поиск по названию товара, без учёта регистра
	got = orderquery.Query(orders, orderquery.Filters{SearchQuery: "товар order2"},
		orderquery.SearchByIDAndProduct, orderquery.SortDesc)
	assert.Len(t, got, 1)
	assert.Equal(t, "order2", got[0].ID)
}

func TestQuery_SearchByPickupAddress(t *testing.T) {
	orders := fixtureOrders()

	got := orderquery.Query(orders, orderquery.Filters{SearchQuery: "ленина"},
		orderquery.SearchByPickupAddress, orderquery.SortAsc)
	assert.Len(t, got, 2)

	// В этом режиме номер заказа не ищется
	got = orderquery.Query(orders, orderquery.Filters{SearchQuery: "order1"},
		orderquery.SearchByPickupAddress, orderquery.SortAsc)
	assert.Empty(t, got)
}

func TestQuery_ConjunctiveFilters(t *testing.T) {
	orders := fixtureOrders()
	from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	// Статус и дата комбинируются по И: DELIVERED после 11 марта — только order3
	got := orderquery.Query(orders, orderquery.Filters{
		Statuses: []status.Status{status.Delivered},
		DateFrom: &from,
	}, orderquery.SearchByIDAndProduct, orderquery.SortDesc)
	assert.Len(t, got, 1)
	assert.Equal(t, "order3", got[0].ID)
}

func TestQuery_StableSortEqualDates(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		mkOrder("first", base, "a", status.New),
		mkOrder("second", base, "b", status.New),
		mkOrder("third", base, "c", status.New),
	}

	got := orderquery.Query(orders, orderquery.Filters{}, orderquery.SearchByIDAndProduct, orderquery.SortDesc)
	// Равные даты сохраняют исходный порядок
	assert.Equal(t, []string{got[0].ID, got[1].ID, got[2].ID}, []string{"first", "second", "third"})
}

func TestActiveAndHistory(t *testing.T) {
	orders := fixtureOrders()

	active := orderquery.Active(orders)
	assert.Len(t, active, 1)
	assert.Equal(t, "order2", active[0].ID)

	history := orderquery.History(orders)
	assert.Len(t, history, 2)
}
