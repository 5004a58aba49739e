package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limarket/marketplace/internal/domain/orderquery"
	"github.com/limarket/marketplace/internal/domain/status"
	"github.com/limarket/marketplace/internal/jwt-new/jwtmiddleware"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
)

// CreateOrderRequest — запрос оформления заказа.
type CreateOrderRequest struct {
	PickupPointID string `json:"pickupPointId" validate:"required,uuid4"`
	Items         []struct {
		ProductID    string `json:"productId" validate:"required"`
		ProductName  string `json:"productName"`
		ProductImage string `json:"productImage"`
		Quantity     int    `json:"quantity" validate:"required,gt=0"`
		ItemPrice    string `json:"itemPrice" validate:"required"`
	} `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderHandler обрабатывает POST /api/orders: оформляет заказ покупателя.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		items := make([]service.NewOrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.NewOrderItem{
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				ProductImage: it.ProductImage,
				Quantity:     it.Quantity,
				ItemPrice:    it.ItemPrice,
			})
		}

		order, err := orderService.CreateOrder(r.Context(), userID, req.PickupPointID, items)
		if err != nil {
			logger.Error("failed to create order", slog.Any("error", err))
			switch {
			case errors.Is(err, service.ErrEmptyOrder):
				writeError(w, http.StatusBadRequest, "Заказ не содержит ни одной позиции")
			case errors.Is(err, storage.ErrPickupPointNotFound):
				writeError(w, http.StatusNotFound, "Пункт выдачи не найден")
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

// parseFilters собирает фильтры выборки из query-параметров:
// status (можно несколько раз или через запятую), dateFrom/dateTo (YYYY-MM-DD,
// обе границы включительно), search, sort=asc|desc (по умолчанию — сначала новые).
func parseFilters(r *http.Request) (orderquery.Filters, orderquery.Sort, error) {
	var f orderquery.Filters
	q := r.URL.Query()

	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			s := status.Status(part)
			if !status.Valid(s) {
				return f, orderquery.SortDesc, errors.New("unknown status: " + part)
			}
			f.Statuses = append(f.Statuses, s)
		}
	}

	if v := q.Get("dateFrom"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, orderquery.SortDesc, errors.New("invalid dateFrom")
		}
		f.DateFrom = &t
	}
	if v := q.Get("dateTo"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, orderquery.SortDesc, errors.New("invalid dateTo")
		}
		// Дата без времени означает весь день, поэтому верхняя граница
		// сдвигается на его последнее мгновение.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}

	f.SearchQuery = q.Get("search")

	dir := orderquery.SortDesc
	if q.Get("sort") == "asc" {
		dir = orderquery.SortAsc
	}
	return f, dir, nil
}

// ListUserOrdersHandler обрабатывает GET /api/orders: заказы текущего покупателя.
func ListUserOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUserOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		filters, dir, err := parseFilters(r)
		if err != nil {
			logger.Warn("bad query params", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		orders, err := orderService.ListUserOrders(r.Context(), userID, filters, dir)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// ListPickupPointOrdersHandler обрабатывает GET /api/orders/pickup_point:
// заказы, адресованные в пункт выдачи текущего аккаунта.
func ListPickupPointOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListPickupPointOrdersHandler"
		logger := log.With(slog.String("op", op))

		accountID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		filters, dir, err := parseFilters(r)
		if err != nil {
			logger.Warn("bad query params", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		orders, err := orderService.ListPickupPointOrders(r.Context(), accountID, filters, dir)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			if errors.Is(err, storage.ErrPickupPointNotFound) {
				writeError(w, http.StatusNotFound, "Пункт выдачи не найден")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// ChangeItemStatusRequest — запрос смены статуса позиции заказа.
type ChangeItemStatusRequest struct {
	NewStatus        string `json:"newStatus" validate:"required"`
	AddInfoForStatus string `json:"addInfoForStatus"`
}

// ChangeItemStatusHandler обрабатывает POST /api/orders/items/{itemID}/status.
// Недопустимый по таблице переходов статус даёт 400, позиция не меняется.
func ChangeItemStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ChangeItemStatusHandler"
		logger := log.With(slog.String("op", op))

		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			writeError(w, http.StatusBadRequest, "item id is required")
			return
		}

		var req ChangeItemStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		item, err := orderService.ChangeItemStatus(r.Context(), itemID, status.Status(req.NewStatus), req.AddInfoForStatus)
		if err != nil {
			logger.Error("failed to change item status", slog.Any("error", err))
			switch {
			case errors.Is(err, status.ErrInvalidTransition):
				writeError(w, http.StatusBadRequest, "Недопустимый переход статуса")
			case errors.Is(err, storage.ErrOrderItemNotFound):
				writeError(w, http.StatusNotFound, "Позиция заказа не найдена")
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// StatusInfo — справочная карточка статуса для клиента.
type StatusInfo struct {
	Status    string   `json:"status"`
	Text      string   `json:"text"`
	ColorTag  string   `json:"colorTag"`
	Available []string `json:"availableStatuses"`
}

// ListStatusesHandler обрабатывает GET /api/orders/statuses: справочник статусов
// с подписями, цветами и допустимыми переходами.
func ListStatusesHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := status.All()
		out := make([]StatusInfo, 0, len(all))
		for _, s := range all {
			next := status.AvailableNext(s)
			available := make([]string, 0, len(next))
			for _, n := range next {
				available = append(available, string(n))
			}
			out = append(out, StatusInfo{
				Status:    string(s),
				Text:      status.Text(s),
				ColorTag:  string(status.Color(s)),
				Available: available,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
