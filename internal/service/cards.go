package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/forms"
	"github.com/limarket/marketplace/internal/storage"
)

var ErrInvalidCard = errors.New("invalid payment card")

// InvalidCardError несёт пополевые ошибки формы карты для ответа клиенту.
type InvalidCardError struct {
	Errors forms.ErrorRecord
}

func (e *InvalidCardError) Error() string { return ErrInvalidCard.Error() }

func (e *InvalidCardError) Unwrap() error { return ErrInvalidCard }

// NewCard — данные формы добавления карты. Полный номер используется только
// для проверки и определения типа, в хранилище попадают последние четыре цифры.
type NewCard struct {
	CardNumber     string
	ExpiryDate     string
	CVV            string
	CardHolderName string
	IsDefault      bool
}

// CardService управляет сохранёнными картами покупателя.
type CardService interface {
	ListCards(ctx context.Context, userID int64) ([]models.PaymentCard, error)
	AddCard(ctx context.Context, userID int64, card NewCard) (*models.PaymentCard, error)
	DeleteCard(ctx context.Context, userID, cardID int64) error
	SetDefaultCard(ctx context.Context, userID, cardID int64) error
}

type cardService struct {
	log      *slog.Logger
	db       *sql.DB
	cardRepo storage.CardStorage
}

func NewCardService(log *slog.Logger, db *sql.DB, cardRepo storage.CardStorage) CardService {
	return &cardService{
		log:      log,
		db:       db,
		cardRepo: cardRepo,
	}
}

func (s *cardService) ListCards(ctx context.Context, userID int64) ([]models.PaymentCard, error) {
	const op = "service.CardService.ListCards"

	cards, err := s.cardRepo.GetCardsByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get cards", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cards: %w", op, err)
	}
	return cards, nil
}

// AddCard проверяет карту (включая контрольную сумму Луна) и сохраняет её.
// Если карта помечена картой по умолчанию, флаг с прочих карт снимается.
func (s *cardService) AddCard(ctx context.Context, userID int64, card NewCard) (*models.PaymentCard, error) {
	const op = "service.CardService.AddCard"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if errs := forms.ValidatePaymentCard(card.CardNumber, card.ExpiryDate, card.CVV, card.CardHolderName); forms.HasErrors(errs) {
		logger.Warn("card validation failed")
		return nil, fmt.Errorf("%s: %w", op, &InvalidCardError{Errors: errs})
	}

	clean := strings.ReplaceAll(card.CardNumber, " ", "")
	stored := &models.PaymentCard{
		UserID:         userID,
		LastFourDigits: clean[len(clean)-4:],
		CardType:       models.CardTypeOf(clean),
		ExpiryDate:     card.ExpiryDate,
		CardHolderName: strings.TrimSpace(card.CardHolderName),
		IsDefault:      card.IsDefault,
	}
	created, err := s.cardRepo.CreateCard(ctx, stored)
	if err != nil {
		logger.Error("failed to create card", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create card: %w", op, err)
	}

	if card.IsDefault {
		if err := s.SetDefaultCard(ctx, userID, created.ID); err != nil {
			logger.Error("failed to set default card", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to set default card: %w", op, err)
		}
	}

	logger.Info("card added", slog.Int64("cardID", created.ID))
	return created, nil
}

func (s *cardService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	const op = "service.CardService.DeleteCard"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("cardID", cardID))

	if err := s.cardRepo.DeleteCard(ctx, userID, cardID); err != nil {
		logger.Error("failed to delete card", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete card: %w", op, err)
	}
	logger.Info("card deleted")
	return nil
}

// SetDefaultCard переключает карту по умолчанию в одной транзакции.
func (s *cardService) SetDefaultCard(ctx context.Context, userID, cardID int64) error {
	const op = "service.CardService.SetDefaultCard"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("cardID", cardID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	if err := s.cardRepo.SetDefaultCard(ctx, tx, userID, cardID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to set default card", slog.Any("error", err))
		return fmt.Errorf("%s: failed to set default card: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	logger.Info("default card updated")
	return nil
}
