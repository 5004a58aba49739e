package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/limarket/marketplace/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается при попытке занять уже зарегистрированную почту.
	ErrEmailTaken = errors.New("email already taken")
)

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, profile models.UserProfile) error
	UpdateEmail(ctx context.Context, id int64, newEmail string) error
	UpdatePassword(ctx context.Context, id int64, passHash []byte) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

const userColumns = "id, email, pass_hash, is_active, is_locked, surname, name, patronymic, phone_number"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{Role: models.RoleUser}
	err := row.Scan(&user.ID, &user.Email, &user.PassHash, &user.IsActive, &user.IsLocked,
		&user.Profile.Surname, &user.Profile.Name, &user.Profile.Patronymic, &user.Profile.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, pass_hash, is_active, is_locked, surname, name, patronymic, phone_number)
		 VALUES ($1, $2, TRUE, FALSE, $3, $4, $5, $6) RETURNING id`,
		user.Email, user.PassHash,
		user.Profile.Surname, user.Profile.Name, user.Profile.Patronymic, user.Profile.PhoneNumber,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.ID = id
	user.IsActive = true
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, profile models.UserProfile) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET surname = $1, name = $2, patronymic = $3, phone_number = $4 WHERE id = $5",
		profile.Surname, profile.Name, profile.Patronymic, profile.PhoneNumber, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *userRepository) UpdateEmail(ctx context.Context, id int64, newEmail string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET email = $1 WHERE id = $2", newEmail, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return checkAffected(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passHash []byte) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET pass_hash = $1 WHERE id = $2", passHash, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
