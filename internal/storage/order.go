package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/status"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderStorage описывает методы для работы с заказами и их позициями.
type OrderStorage interface {
	// CreateOrder вставляет заказ вместе с позициями в одной транзакции.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// GetOrdersByUserID возвращает заказы пользователя вместе с позициями
	// и адресом пункта выдачи (JOIN с pickup_points).
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	// GetOrdersByPickupPointID возвращает заказы, оформленные на пункт выдачи.
	GetOrdersByPickupPointID(ctx context.Context, pointID string) ([]models.Order, error)
	// LockItemByIDTx берёт блокировку строки позиции на время смены статуса.
	LockItemByIDTx(ctx context.Context, tx *sql.Tx, itemID string) (*models.OrderItem, error)
	// UpdateItemStatusTx записывает новый статус позиции внутри транзакции.
	UpdateItemStatusTx(ctx context.Context, tx *sql.Tx, itemID string, newStatus status.Status, addInfo string) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, full_price, pickup_point_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, order.FullPrice, order.PickupPointID, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, product_image,
			                          quantity, item_price, item_status, add_info_for_status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, order.ID, item.ProductID, item.ProductName, item.ProductImage,
			item.Quantity, item.ItemPrice, string(item.ItemStatus), item.AddInfoForStatus)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

const orderSelect = `
	SELECT o.id, o.user_id, o.full_price, o.pickup_point_id, o.created_at,
	       p.street || ', ' || p.house || ', ' || p.city AS pickup_address,
	       i.id, i.product_id, i.product_name, i.product_image,
	       i.quantity, i.item_price, i.item_status, i.add_info_for_status
	FROM orders o
	JOIN pickup_points p ON o.pickup_point_id = p.point_id
	JOIN order_items i ON i.order_id = o.id`

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+" WHERE o.user_id = $1 ORDER BY o.created_at DESC, i.id", userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) GetOrdersByPickupPointID(ctx context.Context, pointID string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+" WHERE o.pickup_point_id = $1 ORDER BY o.created_at DESC, i.id", pointID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// collectOrders собирает плоские строки JOIN в заказы с вложенными позициями.
func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	defer rows.Close()

	var orders []models.Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			order models.Order
			item  models.OrderItem
			st    string
		)
		err := rows.Scan(&order.ID, &order.UserID, &order.FullPrice, &order.PickupPointID,
			&order.CreatedAt, &order.PickupPointAddress,
			&item.ID, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.Quantity, &item.ItemPrice, &st, &item.AddInfoForStatus)
		if err != nil {
			return nil, err
		}
		item.OrderID = order.ID
		item.ItemStatus = status.Status(st)

		if pos, ok := index[order.ID]; ok {
			orders[pos].Items = append(orders[pos].Items, item)
			continue
		}
		order.Items = []models.OrderItem{item}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) LockItemByIDTx(ctx context.Context, tx *sql.Tx, itemID string) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	var st string
	row := tx.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, product_name, product_image,
		       quantity, item_price, item_status, add_info_for_status
		FROM order_items WHERE id = $1 FOR UPDATE NOWAIT`, itemID)
	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductImage,
		&item.Quantity, &item.ItemPrice, &st, &item.AddInfoForStatus)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, err
	}
	item.ItemStatus = status.Status(st)
	return item, nil
}

func (r *orderRepository) UpdateItemStatusTx(ctx context.Context, tx *sql.Tx, itemID string, newStatus status.Status, addInfo string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE order_items
		 SET item_status = $1,
		     add_info_for_status = CASE WHEN $2 <> '' THEN $2 ELSE add_info_for_status END
		 WHERE id = $3`,
		string(newStatus), addInfo, itemID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderItemNotFound
	}
	return nil
}
