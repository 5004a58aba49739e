package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrCodeNotFound = errors.New("verification code not found")

// VerificationStorage хранит коды подтверждения, отправленные на почту.
// На адрес действует один код: повторная отправка заменяет предыдущий.
type VerificationStorage interface {
	SaveCode(ctx context.Context, email, code string, expiresAt time.Time) error
	GetCode(ctx context.Context, email string) (string, time.Time, error)
	DeleteCode(ctx context.Context, email string) error
}

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationStorage {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) SaveCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_verifications (email, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET code = $2, expires_at = $3`,
		email, code, expiresAt)
	return err
}

func (r *verificationRepository) GetCode(ctx context.Context, email string) (string, time.Time, error) {
	var (
		code      string
		expiresAt time.Time
	)
	row := r.db.QueryRowContext(ctx,
		"SELECT code, expires_at FROM email_verifications WHERE email = $1", email)
	if err := row.Scan(&code, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrCodeNotFound
		}
		return "", time.Time{}, err
	}
	return code, expiresAt, nil
}

func (r *verificationRepository) DeleteCode(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM email_verifications WHERE email = $1", email)
	return err
}
