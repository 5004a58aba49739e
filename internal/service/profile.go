package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("current password is incorrect")

// ProfileUpdate — частичное обновление анкеты: nil-поле не меняется.
type ProfileUpdate struct {
	Surname     *string
	Name        *string
	Patronymic  *string
	PhoneNumber *string
}

// ProfileService управляет профилем покупателя: анкета, почта, пароль.
type ProfileService interface {
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error)
	// UpdateEmail меняет почту после проверки кода, отправленного на новый адрес.
	UpdateEmail(ctx context.Context, userID int64, newEmail, code string) error
	// UpdatePassword меняет пароль после проверки текущего пароля и кода.
	UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword, code string) error
	// GetPickupPoint и UpdatePickupPoint обслуживают кабинет пункта выдачи.
	GetPickupPoint(ctx context.Context, accountID int64) (*models.PickupPoint, error)
	UpdatePickupPoint(ctx context.Context, accountID int64, workingHours, phoneNumber, addInfo string) (*models.PickupPoint, error)
}

type profileService struct {
	log        *slog.Logger
	userRepo   storage.UserStorage
	pointRepo  storage.PickupPointStorage
	verifyRepo storage.VerificationStorage
}

func NewProfileService(log *slog.Logger, userRepo storage.UserStorage, pointRepo storage.PickupPointStorage, verifyRepo storage.VerificationStorage) ProfileService {
	return &profileService{
		log:        log,
		userRepo:   userRepo,
		pointRepo:  pointRepo,
		verifyRepo: verifyRepo,
	}
}

func (s *profileService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "service.ProfileService.GetCurrentUser"

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	const op = "service.ProfileService.UpdateProfile"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	profile := user.Profile
	if update.Surname != nil {
		profile.Surname = *update.Surname
	}
	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Patronymic != nil {
		profile.Patronymic = *update.Patronymic
	}
	if update.PhoneNumber != nil {
		profile.PhoneNumber = *update.PhoneNumber
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, profile); err != nil {
		logger.Error("failed to update profile", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update profile: %w", op, err)
	}
	user.Profile = profile
	logger.Info("profile updated")
	return user, nil
}

func (s *profileService) UpdateEmail(ctx context.Context, userID int64, newEmail, code string) error {
	const op = "service.ProfileService.UpdateEmail"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if err := s.checkCode(ctx, newEmail, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.userRepo.UpdateEmail(ctx, userID, newEmail); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already taken")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		logger.Error("failed to update email", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update email: %w", op, err)
	}
	logger.Info("email updated")
	return nil
}

func (s *profileService) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword, code string) error {
	const op = "service.ProfileService.UpdatePassword"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(currentPassword)); err != nil {
		logger.Warn("wrong current password")
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}
	if err := s.checkCode(ctx, user.Email, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, passHash); err != nil {
		logger.Error("failed to update password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}
	logger.Info("password updated")
	return nil
}

func (s *profileService) checkCode(ctx context.Context, email, code string) error {
	stored, expiresAt, err := s.verifyRepo.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if stored != code || time.Now().After(expiresAt) {
		return ErrInvalidCode
	}
	return s.verifyRepo.DeleteCode(ctx, email)
}

func (s *profileService) GetPickupPoint(ctx context.Context, accountID int64) (*models.PickupPoint, error) {
	const op = "service.ProfileService.GetPickupPoint"

	point, err := s.pointRepo.GetPickupPointByID(ctx, accountID)
	if err != nil {
		s.log.Error("failed to get pickup point", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get pickup point: %w", op, err)
	}
	return point, nil
}

// UpdatePickupPoint меняет изменяемые поля пункта выдачи. Адрес и идентификатор
// пункта после регистрации не редактируются.
func (s *profileService) UpdatePickupPoint(ctx context.Context, accountID int64, workingHours, phoneNumber, addInfo string) (*models.PickupPoint, error) {
	const op = "service.ProfileService.UpdatePickupPoint"
	logger := s.log.With(slog.String("op", op), slog.Int64("accountID", accountID))

	if err := s.pointRepo.UpdatePickupPoint(ctx, accountID, workingHours, phoneNumber, addInfo); err != nil {
		logger.Error("failed to update pickup point", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update pickup point: %w", op, err)
	}
	point, err := s.pointRepo.GetPickupPointByID(ctx, accountID)
	if err != nil {
		logger.Error("failed to reread pickup point", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to reread pickup point: %w", op, err)
	}
	logger.Info("pickup point updated")
	return point, nil
}
