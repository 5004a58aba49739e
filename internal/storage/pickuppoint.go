package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/limarket/marketplace/internal/domain/models"
)

var ErrPickupPointNotFound = errors.New("pickup point not found")

type PickupPointStorage interface {
	GetPickupPointByEmail(ctx context.Context, email string) (*models.PickupPoint, error)
	GetPickupPointByID(ctx context.Context, id int64) (*models.PickupPoint, error)
	GetPickupPointByPointID(ctx context.Context, pointID string) (*models.PickupPoint, error)
	CreatePickupPoint(ctx context.Context, point *models.PickupPoint) (*models.PickupPoint, error)
	// UpdatePickupPoint обновляет изменяемые поля пункта: режим работы, телефон, примечание.
	UpdatePickupPoint(ctx context.Context, id int64, workingHours, phoneNumber, addInfo string) error
}

type pickupPointRepository struct {
	db *sql.DB
}

func NewPickupPointRepository(db *sql.DB) PickupPointStorage {
	return &pickupPointRepository{db: db}
}

const pointColumns = `id, point_id, email, pass_hash, region, city, street, house, postal_code,
	working_hours, phone_number, add_info`

func scanPoint(row *sql.Row) (*models.PickupPoint, error) {
	point := &models.PickupPoint{}
	err := row.Scan(&point.ID, &point.PointID, &point.Email, &point.PassHash,
		&point.Address.Region, &point.Address.City, &point.Address.Street, &point.Address.House,
		&point.Address.PostalCode, &point.WorkingHours, &point.PhoneNumber, &point.AddInfo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPickupPointNotFound
		}
		return nil, err
	}
	return point, nil
}

func (r *pickupPointRepository) GetPickupPointByEmail(ctx context.Context, email string) (*models.PickupPoint, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pointColumns+" FROM pickup_points WHERE email = $1", email)
	return scanPoint(row)
}

func (r *pickupPointRepository) GetPickupPointByID(ctx context.Context, id int64) (*models.PickupPoint, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pointColumns+" FROM pickup_points WHERE id = $1", id)
	return scanPoint(row)
}

func (r *pickupPointRepository) GetPickupPointByPointID(ctx context.Context, pointID string) (*models.PickupPoint, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pointColumns+" FROM pickup_points WHERE point_id = $1", pointID)
	return scanPoint(row)
}

func (r *pickupPointRepository) CreatePickupPoint(ctx context.Context, point *models.PickupPoint) (*models.PickupPoint, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pickup_points (point_id, email, pass_hash, region, city, street, house,
		                           postal_code, working_hours, phone_number, add_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		point.PointID, point.Email, point.PassHash,
		point.Address.Region, point.Address.City, point.Address.Street, point.Address.House,
		point.Address.PostalCode, point.WorkingHours, point.PhoneNumber, point.AddInfo,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	point.ID = id
	return point, nil
}

func (r *pickupPointRepository) UpdatePickupPoint(ctx context.Context, id int64, workingHours, phoneNumber, addInfo string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pickup_points SET working_hours = $1, phone_number = $2, add_info = $3 WHERE id = $4",
		workingHours, phoneNumber, addInfo, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPickupPointNotFound
	}
	return nil
}
