package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/orderquery"
	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const testPointID = "6f1c2a34-0000-4000-8000-000000000001"

func seedPoint(pointRepo *fakePointRepo) {
	pointRepo.points["point@example.com"] = &models.PickupPoint{
		ID:      1,
		PointID: testPointID,
		Email:   "point@example.com",
		Address: models.Address{City: "Москва", Street: "Ленина", House: "5"},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	orderRepo := newFakeOrderRepo()
	pointRepo := newFakePointRepo()
	seedPoint(pointRepo)
	svc := service.NewOrderService(testLogger(), db, orderRepo, pointRepo)

	order, err := svc.CreateOrder(context.Background(), 7, testPointID, []service.NewOrderItem{
		{ProductID: "6f1c2a34-0000-4000-8000-00000000000a", ProductName: "Чайник", Quantity: 2, ItemPrice: "1999.90"},
		{ProductID: "6f1c2a34-0000-4000-8000-00000000000b", ProductName: "Кружка", Quantity: 1, ItemPrice: "350.00"},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, order.Items, 2)

	// Каждая позиция начинает путь со статуса NEW
	for _, item := range order.Items {
		assert.Equal(t, status.New, item.ItemStatus)
		assert.NotEmpty(t, item.ID)
	}

	// Итоговая сумма — сумма цена*количество по позициям
	assert.True(t, order.FullPrice.Equal(decimal.RequireFromString("4349.80")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_EmptyOrder(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := service.NewOrderService(testLogger(), db, newFakeOrderRepo(), newFakePointRepo())

	_, err = svc.CreateOrder(context.Background(), 7, testPointID, nil)
	assert.ErrorIs(t, err, service.ErrEmptyOrder)
}

func TestCreateOrder_UnknownPickupPoint(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := service.NewOrderService(testLogger(), db, newFakeOrderRepo(), newFakePointRepo())

	_, err = svc.CreateOrder(context.Background(), 7, testPointID, []service.NewOrderItem{
		{ProductID: "6f1c2a34-0000-4000-8000-00000000000a", Quantity: 1, ItemPrice: "100"},
	})
	assert.ErrorIs(t, err, storage.ErrPickupPointNotFound)
}

func TestChangeItemStatus_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	orderRepo := newFakeOrderRepo()
	orderRepo.items["item-1"] = &models.OrderItem{ID: "item-1", ItemStatus: status.New}
	svc := service.NewOrderService(testLogger(), db, orderRepo, newFakePointRepo())

	item, err := svc.ChangeItemStatus(context.Background(), "item-1", status.Processing, "")
	assert.NoError(t, err)
	assert.Equal(t, status.Processing, item.ItemStatus)
	assert.Equal(t, status.Processing, orderRepo.items["item-1"].ItemStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeItemStatus_InvalidTransitionRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	orderRepo := newFakeOrderRepo()
	orderRepo.items["item-1"] = &models.OrderItem{ID: "item-1", ItemStatus: status.Delivered}
	svc := service.NewOrderService(testLogger(), db, orderRepo, newFakePointRepo())

	_, err = svc.ChangeItemStatus(context.Background(), "item-1", status.Processing, "")
	assert.ErrorIs(t, err, status.ErrInvalidTransition)
	// Позиция осталась в прежнем статусе
	assert.Equal(t, status.Delivered, orderRepo.items["item-1"].ItemStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeItemStatus_UnknownStatus(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := service.NewOrderService(testLogger(), db, newFakeOrderRepo(), newFakePointRepo())

	_, err = svc.ChangeItemStatus(context.Background(), "item-1", status.Status("SHIPPED"), "")
	assert.ErrorIs(t, err, status.ErrInvalidTransition)
}

func TestChangeItemStatus_ItemNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := service.NewOrderService(testLogger(), db, newFakeOrderRepo(), newFakePointRepo())

	_, err = svc.ChangeItemStatus(context.Background(), "ghost", status.Processing, "")
	assert.ErrorIs(t, err, storage.ErrOrderItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUserOrders_FiltersAndSorts(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	orderRepo := newFakeOrderRepo()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orderRepo.orders["o1"] = &models.Order{
		ID: "o1", UserID: 7, CreatedAt: base,
		Items: []models.OrderItem{{ItemStatus: status.Delivered}},
	}
	orderRepo.orders["o2"] = &models.Order{
		ID: "o2", UserID: 7, CreatedAt: base.Add(time.Hour),
		Items: []models.OrderItem{{ItemStatus: status.InTransit}},
	}
	orderRepo.orders["o3"] = &models.Order{
		ID: "o3", UserID: 8, CreatedAt: base,
		Items: []models.OrderItem{{ItemStatus: status.Delivered}},
	}
	svc := service.NewOrderService(testLogger(), db, orderRepo, newFakePointRepo())

	// Чужие заказы не попадают в выборку
	orders, err := svc.ListUserOrders(context.Background(), 7, orderquery.Filters{}, orderquery.SortDesc)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)

	orders, err = svc.ListUserOrders(context.Background(), 7, orderquery.Filters{
		Statuses: []status.Status{status.Delivered},
	}, orderquery.SortDesc)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestListPickupPointOrders(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	orderRepo := newFakeOrderRepo()
	pointRepo := newFakePointRepo()
	seedPoint(pointRepo)
	orderRepo.orders["o1"] = &models.Order{
		ID: "o1", UserID: 7, PickupPointID: testPointID,
		Items: []models.OrderItem{{ItemStatus: status.InTransit, ProductName: "Чайник"}},
	}
	orderRepo.orders["o2"] = &models.Order{
		ID: "o2", UserID: 7, PickupPointID: "6f1c2a34-0000-4000-8000-0000000000ff",
		Items: []models.OrderItem{{ItemStatus: status.InTransit}},
	}
	svc := service.NewOrderService(testLogger(), db, orderRepo, pointRepo)

	// Аккаунт пункта выдачи видит только адресованные ему заказы
	orders, err := svc.ListPickupPointOrders(context.Background(), 1, orderquery.Filters{}, orderquery.SortDesc)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	// Поиск по названию товара
	orders, err = svc.ListPickupPointOrders(context.Background(), 1, orderquery.Filters{
		SearchQuery: "чайник",
	}, orderquery.SortDesc)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	// Неизвестный аккаунт
	_, err = svc.ListPickupPointOrders(context.Background(), 99, orderquery.Filters{}, orderquery.SortDesc)
	assert.ErrorIs(t, err, storage.ErrPickupPointNotFound)
}
