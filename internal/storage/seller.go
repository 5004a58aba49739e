package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/limarket/marketplace/internal/domain/models"
)

var ErrSellerNotFound = errors.New("seller not found")

type SellerStorage interface {
	GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error)
	CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error)
}

type sellerRepository struct {
	db *sql.DB
}

func NewSellerRepository(db *sql.DB) SellerStorage {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error) {
	seller := &models.Seller{}
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, pass_hash, is_active, is_locked,
		       full_company_name, short_company_name, description,
		       person_surname, person_name, person_patronymic, person_phone,
		       bank_account_number, bank_name, bic, account_holder_name, inn
		FROM sellers WHERE email = $1`, email)
	err := row.Scan(&seller.ID, &seller.Email, &seller.PassHash, &seller.IsActive, &seller.IsLocked,
		&seller.Profile.FullCompanyName, &seller.Profile.ShortCompanyName, &seller.Profile.Description,
		&seller.Person.Surname, &seller.Person.Name, &seller.Person.Patronymic, &seller.Person.PhoneNumber,
		&seller.Payment.BankAccountNumber, &seller.Payment.BankName, &seller.Payment.BIC,
		&seller.Payment.AccountHolderName, &seller.Payment.INN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sellers (email, pass_hash, is_active, is_locked,
		                     full_company_name, short_company_name, description,
		                     person_surname, person_name, person_patronymic, person_phone,
		                     bank_account_number, bank_name, bic, account_holder_name, inn)
		VALUES ($1, $2, TRUE, FALSE, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		seller.Email, seller.PassHash,
		seller.Profile.FullCompanyName, seller.Profile.ShortCompanyName, seller.Profile.Description,
		seller.Person.Surname, seller.Person.Name, seller.Person.Patronymic, seller.Person.PhoneNumber,
		seller.Payment.BankAccountNumber, seller.Payment.BankName, seller.Payment.BIC,
		seller.Payment.AccountHolderName, seller.Payment.INN,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	seller.ID = id
	seller.IsActive = true
	return seller, nil
}
