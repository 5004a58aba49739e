package models

import (
	"fmt"
	"time"

	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/shopspring/decimal"
)

// OrderItem представляет позицию заказа, несущую собственный статус доставки.
// Количество и цена фиксируются при оформлении и дальше не меняются,
// единственная мутация — смена статуса через ApplyTransition.
type OrderItem struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"orderId"`
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName,omitempty"`
	ProductImage     string          `json:"productImage,omitempty"`
	Quantity         int             `json:"quantity"`
	ItemPrice        decimal.Decimal `json:"itemPrice"`
	ItemStatus       status.Status   `json:"itemStatus"`
	AddInfoForStatus string          `json:"addInfoForStatus,omitempty"`
}

// ApplyTransition меняет статус позиции, если переход разрешён таблицей переходов,
// и опционально записывает пояснение к новому статусу (например, причину возврата).
// При недопустимом переходе позиция не меняется.
func (i *OrderItem) ApplyTransition(to status.Status, addInfo string) error {
	if err := status.Transition(i.ItemStatus, to); err != nil {
		return fmt.Errorf("item %s: %s -> %s: %w", i.ID, i.ItemStatus, to, err)
	}
	i.ItemStatus = to
	if addInfo != "" {
		i.AddInfoForStatus = addInfo
	}
	return nil
}

// Order представляет заказ пользователя, выдаваемый через один пункт выдачи.
// Собственного поля статуса у заказа нет — статус всегда выводится из позиций.
// FullPrice считается один раз при создании и является итоговой суммой заказа.
type Order struct {
	ID                 string          `json:"id"`
	UserID             int64           `json:"userId"`
	FullPrice          decimal.Decimal `json:"fullPrice"`
	PickupPointID      string          `json:"pickupPointId"`
	PickupPointAddress string          `json:"pickupPointAddress,omitempty"`
	Items              []OrderItem     `json:"items"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// IsActive — заказ активен, пока хотя бы одна позиция находится в пути к покупателю.
func (o *Order) IsActive() bool {
	for _, item := range o.Items {
		if status.InFlight(item.ItemStatus) {
			return true
		}
	}
	return false
}

// MainStatus сворачивает статусы позиций к одному представительному:
// берётся первый по приоритетному списку статус, встречающийся среди позиций.
// Если ни одна позиция не классифицировалась, возвращается NEW.
func (o *Order) MainStatus() status.Status {
	for _, s := range status.All() {
		for _, item := range o.Items {
			if item.ItemStatus == s {
				return s
			}
		}
	}
	return status.New
}

// TotalOf считает сумму позиций (цена × количество). Используется один раз,
// при создании заказа; дальше FullPrice не пересчитывается.
func TotalOf(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ItemPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
