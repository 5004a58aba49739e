package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/limarket/marketplace/internal/domain/models"
)

var ErrCardNotFound = errors.New("payment card not found")

// CardStorage описывает методы для работы с сохранёнными картами покупателя.
type CardStorage interface {
	GetCardsByUserID(ctx context.Context, userID int64) ([]models.PaymentCard, error)
	CreateCard(ctx context.Context, card *models.PaymentCard) (*models.PaymentCard, error)
	DeleteCard(ctx context.Context, userID, cardID int64) error
	// SetDefaultCard помечает карту картой по умолчанию; флаг с остальных
	// карт пользователя снимается в той же транзакции.
	SetDefaultCard(ctx context.Context, tx *sql.Tx, userID, cardID int64) error
}

type cardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) CardStorage {
	return &cardRepository{db: db}
}

func (r *cardRepository) GetCardsByUserID(ctx context.Context, userID int64) ([]models.PaymentCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, last_four_digits, card_type, expiry_date, card_holder_name, is_default
		FROM payment_cards
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment cards: %w", err)
	}
	defer rows.Close()

	var cards []models.PaymentCard
	for rows.Next() {
		var card models.PaymentCard
		if err := rows.Scan(&card.ID, &card.UserID, &card.LastFourDigits, &card.CardType,
			&card.ExpiryDate, &card.CardHolderName, &card.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan payment card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) CreateCard(ctx context.Context, card *models.PaymentCard) (*models.PaymentCard, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payment_cards (user_id, last_four_digits, card_type, expiry_date, card_holder_name, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		card.UserID, card.LastFourDigits, card.CardType, card.ExpiryDate, card.CardHolderName, card.IsDefault,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment card: %w", err)
	}
	card.ID = id
	return card, nil
}

func (r *cardRepository) DeleteCard(ctx context.Context, userID, cardID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM payment_cards WHERE id = $1 AND user_id = $2", cardID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepository) SetDefaultCard(ctx context.Context, tx *sql.Tx, userID, cardID int64) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE payment_cards SET is_default = FALSE WHERE user_id = $1", userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE payment_cards SET is_default = TRUE WHERE id = $1 AND user_id = $2", cardID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCardNotFound
	}
	return nil
}
