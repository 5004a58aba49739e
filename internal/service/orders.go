package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/orderquery"
	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/limarket/marketplace/internal/storage"
)

var ErrEmptyOrder = errors.New("order must contain at least one item")

// NewOrderItem — позиция оформляемого заказа.
type NewOrderItem struct {
	ProductID    string
	ProductName  string
	ProductImage string
	Quantity     int
	ItemPrice    string // десятичная строка
}

// OrderService управляет заказами: оформление, выборка по фильтрам,
// смена статуса позиции.
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, pickupPointID string, items []NewOrderItem) (*models.Order, error)
	// ListUserOrders возвращает заказы пользователя через фильтры истории
	// (поиск по адресу пункта выдачи).
	ListUserOrders(ctx context.Context, userID int64, filters orderquery.Filters, dir orderquery.Sort) ([]models.Order, error)
	// ListPickupPointOrders возвращает заказы пункта выдачи по ID его аккаунта
	// (поиск по номеру заказа и названию товара).
	ListPickupPointOrders(ctx context.Context, accountID int64, filters orderquery.Filters, dir orderquery.Sort) ([]models.Order, error)
	// ChangeItemStatus переводит позицию в новый статус по таблице переходов.
	ChangeItemStatus(ctx context.Context, itemID string, newStatus status.Status, addInfo string) (*models.OrderItem, error)
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	orderRepo storage.OrderStorage
	pointRepo storage.PickupPointStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, pointRepo storage.PickupPointStorage) OrderService {
	return &orderService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
		pointRepo: pointRepo,
	}
}

// CreateOrder оформляет заказ: каждая позиция получает статус NEW, итоговая
// сумма считается один раз и дальше не пересчитывается.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, pickupPointID string, items []NewOrderItem) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}

	// Пункт выдачи должен существовать
	if _, err := s.pointRepo.GetPickupPointByPointID(ctx, pickupPointID); err != nil {
		logger.Error("failed to get pickup point", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get pickup point: %w", op, err)
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		PickupPointID: pickupPointID,
		CreatedAt:     time.Now().UTC(),
	}
	for _, in := range items {
		price, err := parsePrice(in.ItemPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid item price: %w", op, err)
		}
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%s: quantity must be positive", op)
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			ProductID:    in.ProductID,
			ProductName:  in.ProductName,
			ProductImage: in.ProductImage,
			Quantity:     in.Quantity,
			ItemPrice:    price,
			ItemStatus:   status.New,
		})
	}
	order.FullPrice = models.TotalOf(order.Items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order created", slog.String("orderID", order.ID), slog.Int("items", len(order.Items)))
	return order, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID int64, filters orderquery.Filters, dir orderquery.Sort) ([]models.Order, error) {
	const op = "service.OrderService.ListUserOrders"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orderquery.Query(orders, filters, orderquery.SearchByPickupAddress, dir), nil
}

func (s *orderService) ListPickupPointOrders(ctx context.Context, accountID int64, filters orderquery.Filters, dir orderquery.Sort) ([]models.Order, error) {
	const op = "service.OrderService.ListPickupPointOrders"

	point, err := s.pointRepo.GetPickupPointByID(ctx, accountID)
	if err != nil {
		s.log.Error("failed to get pickup point", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get pickup point: %w", op, err)
	}

	orders, err := s.orderRepo.GetOrdersByPickupPointID(ctx, point.PointID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orderquery.Query(orders, filters, orderquery.SearchByIDAndProduct, dir), nil
}

// ChangeItemStatus меняет статус позиции заказа. Позиция блокируется на время
// транзакции; недопустимый переход отклоняется без каких-либо изменений.
// Соседние позиции и итоговая сумма заказа не затрагиваются.
func (s *orderService) ChangeItemStatus(ctx context.Context, itemID string, newStatus status.Status, addInfo string) (*models.OrderItem, error) {
	const op = "service.OrderService.ChangeItemStatus"
	logger := s.log.With(slog.String("op", op), slog.String("itemID", itemID), slog.String("newStatus", string(newStatus)))
	logger.Info("starting status transition")

	if !status.Valid(newStatus) {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, newStatus, status.ErrInvalidTransition)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	item, err := s.orderRepo.LockItemByIDTx(ctx, tx, itemID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to lock item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to lock item: %w", op, err)
	}

	if err := item.ApplyTransition(newStatus, addInfo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("transition rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.orderRepo.UpdateItemStatusTx(ctx, tx, itemID, item.ItemStatus, addInfo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update item status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update item status: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("status transition completed")
	return item, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("price must be non-negative")
	}
	return price, nil
}
