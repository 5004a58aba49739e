package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/limarket/marketplace/internal/jwt-new/jwtmiddleware"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
)

// ListCardsHandler обрабатывает GET /api/cards: платёжные карты покупателя.
func ListCardsHandler(log *slog.Logger, cardService service.CardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCardsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		cards, err := cardService.ListCards(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list cards", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, cards)
	}
}

// AddCardRequest — реквизиты добавляемой карты. Полный номер и CVV в базу
// не попадают, хранятся лишь последние четыре цифры.
type AddCardRequest struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpiryDate     string `json:"expiryDate" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
	CardHolderName string `json:"cardHolderName" validate:"required"`
	IsDefault      bool   `json:"isDefault"`
}

// AddCardHandler обрабатывает POST /api/cards.
func AddCardHandler(log *slog.Logger, cardService service.CardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCardHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req AddCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		card, err := cardService.AddCard(r.Context(), userID, service.NewCard{
			CardNumber:     req.CardNumber,
			ExpiryDate:     req.ExpiryDate,
			CVV:            req.CVV,
			CardHolderName: req.CardHolderName,
			IsDefault:      req.IsDefault,
		})
		if err != nil {
			logger.Error("failed to add card", slog.Any("error", err))
			var invalid *service.InvalidCardError
			if errors.As(err, &invalid) {
				writeJSON(w, http.StatusBadRequest, invalid.Errors)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, card)
	}
}

func cardIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
}

// DeleteCardHandler обрабатывает DELETE /api/cards/{cardID}.
func DeleteCardHandler(log *slog.Logger, cardService service.CardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteCardHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		cardID, err := cardIDFromPath(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid card id")
			return
		}

		if err := cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
			logger.Error("failed to delete card", slog.Any("error", err))
			if errors.Is(err, storage.ErrCardNotFound) {
				writeError(w, http.StatusNotFound, "Карта не найдена")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Card deleted"})
	}
}

// SetDefaultCardHandler обрабатывает POST /api/cards/{cardID}/default.
func SetDefaultCardHandler(log *slog.Logger, cardService service.CardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SetDefaultCardHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		cardID, err := cardIDFromPath(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid card id")
			return
		}

		if err := cardService.SetDefaultCard(r.Context(), userID, cardID); err != nil {
			logger.Error("failed to set default card", slog.Any("error", err))
			if errors.Is(err, storage.ErrCardNotFound) {
				writeError(w, http.StatusNotFound, "Карта не найдена")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Default card updated"})
	}
}
