package models_test

import (
	"testing"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyTransition(t *testing.T) {
	item := models.OrderItem{ItemStatus: status.New}

	err := item.ApplyTransition(status.Processing, "")
	assert.NoError(t, err)
	assert.Equal(t, status.Processing, item.ItemStatus)

	// Пояснение сохраняется вместе со статусом
	err = item.ApplyTransition(status.Cancelled, "нет на складе")
	assert.NoError(t, err)
	assert.Equal(t, status.Cancelled, item.ItemStatus)
	assert.Equal(t, "нет на складе", item.AddInfoForStatus)
}

func TestApplyTransition_RejectedKeepsItem(t *testing.T) {
	item := models.OrderItem{ItemStatus: status.Delivered, AddInfoForStatus: "выдан"}

	err := item.ApplyTransition(status.Processing, "назад в обработку")
	assert.ErrorIs(t, err, status.ErrInvalidTransition)
	// Отклонённый переход не меняет ни статус, ни пояснение
	assert.Equal(t, status.Delivered, item.ItemStatus)
	assert.Equal(t, "выдан", item.AddInfoForStatus)
}

func TestIsActive(t *testing.T) {
	active := models.Order{Items: []models.OrderItem{
		{ItemStatus: status.Delivered},
		{ItemStatus: status.InTransit},
	}}
	assert.True(t, active.IsActive())

	finished := models.Order{Items: []models.OrderItem{
		{ItemStatus: status.Delivered},
		{ItemStatus: status.Cancelled},
	}}
	assert.False(t, finished.IsActive())

	fresh := models.Order{Items: []models.OrderItem{{ItemStatus: status.New}}}
	assert.True(t, fresh.IsActive())
}

func TestMainStatus(t *testing.T) {
	// Приоритет отдаётся самому раннему статусу среди позиций
	order := models.Order{Items: []models.OrderItem{
		{ItemStatus: status.InTransit},
		{ItemStatus: status.Delivered},
	}}
	assert.Equal(t, status.InTransit, order.MainStatus())

	refunded := models.Order{Items: []models.OrderItem{{ItemStatus: status.Refunded}}}
	assert.Equal(t, status.Refunded, refunded.MainStatus())

	// Пустой заказ сворачивается в NEW
	empty := models.Order{}
	assert.Equal(t, status.New, empty.MainStatus())
}

func TestTotalOf(t *testing.T) {
	items := []models.OrderItem{
		{ItemPrice: decimal.RequireFromString("199.90"), Quantity: 2},
		{ItemPrice: decimal.RequireFromString("50.10"), Quantity: 1},
	}
	assert.True(t, models.TotalOf(items).Equal(decimal.RequireFromString("449.90")))

	assert.True(t, models.TotalOf(nil).IsZero())
}

func TestCardTypeOf(t *testing.T) {
	assert.Equal(t, "VISA", models.CardTypeOf("4276000000000000"))
	assert.Equal(t, "MASTERCARD", models.CardTypeOf("5469000000000000"))
	assert.Equal(t, "MASTERCARD", models.CardTypeOf("2221000000000000"))
	assert.Equal(t, "MIR", models.CardTypeOf("2000000000000000"))
}
