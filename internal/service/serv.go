package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/limarket/marketplace/internal/domain/models"
	security "github.com/limarket/marketplace/internal/jwt-new"
	"github.com/limarket/marketplace/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Ошибки аутентификации, по которым транспортный слой выбирает HTTP-статус:
// учётные данные — 401, занятая почта — 409, остальное — 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrEmailTaken         = errors.New("email already taken")
)

type AuthService struct {
	log        *slog.Logger
	userRepo   storage.UserStorage
	sellerRepo storage.SellerStorage
	pointRepo  storage.PickupPointStorage
	verifyRepo storage.VerificationStorage
	tokenTTL   time.Duration
	codeTTL    time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, sellerRepo storage.SellerStorage,
	pointRepo storage.PickupPointStorage, verifyRepo storage.VerificationStorage,
	tokenTTL, codeTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		userRepo:   userRepo,
		sellerRepo: sellerRepo,
		pointRepo:  pointRepo,
		verifyRepo: verifyRepo,
		tokenTTL:   tokenTTL,
		codeTTL:    codeTTL,
	}
}

type AuthServiceInterface interface {
	SendCode(ctx context.Context, email string) error
	SignUpUser(ctx context.Context, email, code, password string, profile models.UserProfile) error
	SignUpSeller(ctx context.Context, email, code, password string, seller *models.Seller) error
	SignUpPickupPoint(ctx context.Context, email, code, password string, point *models.PickupPoint) error
	SignInWithCode(ctx context.Context, role, email, code string) (string, error)
	SignInWithPassword(ctx context.Context, role, email, password string) (string, error)
}

// SendCode генерирует шестизначный код подтверждения и сохраняет его с TTL.
// Доставка кода на почту вынесена за пределы сервиса; в локальной среде код
// виден в debug-логе.
func (a *AuthService) SendCode(ctx context.Context, email string) error {
	const op = "auth.SendCode"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	code, err := generateCode()
	if err != nil {
		logger.Error("failed to generate code", slog.Any("error", err))
		return fmt.Errorf("%s: failed to generate code: %w", op, err)
	}
	if err := a.verifyRepo.SaveCode(ctx, email, code, time.Now().Add(a.codeTTL)); err != nil {
		logger.Error("failed to save code", slog.Any("error", err))
		return fmt.Errorf("%s: failed to save code: %w", op, err)
	}
	logger.Info("verification code issued")
	logger.Debug("verification code", slog.String("code", code))
	return nil
}

// checkCode сверяет код подтверждения и срок его действия; использованный код
// удаляется, повторно применить его нельзя.
func (a *AuthService) checkCode(ctx context.Context, email, code string) error {
	stored, expiresAt, err := a.verifyRepo.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if stored != code || time.Now().After(expiresAt) {
		return ErrInvalidCode
	}
	return a.verifyRepo.DeleteCode(ctx, email)
}

// SignUpUser регистрирует покупателя: проверка кода, хэширование пароля,
// создание аккаунта. Занятая почта — ErrEmailTaken.
func (a *AuthService) SignUpUser(ctx context.Context, email, code, password string, profile models.UserProfile) error {
	const op = "auth.SignUpUser"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	if err := a.checkCode(ctx, email, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}
	user := &models.User{Email: email, PassHash: passHash, Role: models.RoleUser, Profile: profile}
	if _, err := a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already taken")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create user: %w", op, err)
	}
	logger.Info("user registered", slog.Int64("userID", user.ID))
	return nil
}

// SignUpSeller регистрирует продавца.
func (a *AuthService) SignUpSeller(ctx context.Context, email, code, password string, seller *models.Seller) error {
	const op = "auth.SignUpSeller"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	if err := a.checkCode(ctx, email, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}
	seller.Email = email
	seller.PassHash = passHash
	if _, err := a.sellerRepo.CreateSeller(ctx, seller); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already taken")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		logger.Error("failed to create seller", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create seller: %w", op, err)
	}
	logger.Info("seller registered", slog.Int64("sellerID", seller.ID))
	return nil
}

// SignUpPickupPoint регистрирует пункт выдачи.
func (a *AuthService) SignUpPickupPoint(ctx context.Context, email, code, password string, point *models.PickupPoint) error {
	const op = "auth.SignUpPickupPoint"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	if err := a.checkCode(ctx, email, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}
	point.Email = email
	point.PassHash = passHash
	if _, err := a.pointRepo.CreatePickupPoint(ctx, point); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already taken")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		logger.Error("failed to create pickup point", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create pickup point: %w", op, err)
	}
	logger.Info("pickup point registered", slog.Int64("pointID", point.ID))
	return nil
}

// account — общий вид аккаунта любой роли для выпуска токена.
type account struct {
	id       int64
	email    string
	passHash []byte
}

func (a *AuthService) findAccount(ctx context.Context, role, email string) (*account, error) {
	switch role {
	case models.RoleSeller:
		seller, err := a.sellerRepo.GetSellerByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &account{id: seller.ID, email: seller.Email, passHash: seller.PassHash}, nil
	case models.RolePickupPoint:
		point, err := a.pointRepo.GetPickupPointByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &account{id: point.ID, email: point.Email, passHash: point.PassHash}, nil
	default:
		user, err := a.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &account{id: user.ID, email: user.Email, passHash: user.PassHash}, nil
	}
}

// SignInWithCode осуществляет вход по одноразовому коду: код сверяется,
// аккаунт ищется по роли и почте, выпускается JWT.
func (a *AuthService) SignInWithCode(ctx context.Context, role, email, code string) (string, error) {
	const op = "auth.SignInWithCode"
	logger := a.log.With(slog.String("op", op), slog.String("email", email), slog.String("role", role))

	if err := a.checkCode(ctx, email, code); err != nil {
		logger.Warn("code check failed", slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	acc, err := a.findAccount(ctx, role, email)
	if err != nil {
		if isNotFound(err) {
			logger.Warn("account not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get account", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get account: %w", op, err)
	}

	token, err := security.NewToken(ctx, acc.id, acc.email, role, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	logger.Info("signed in with code", slog.Int64("accountID", acc.id))
	return token, nil
}

// SignInWithPassword осуществляет вход по паролю.
func (a *AuthService) SignInWithPassword(ctx context.Context, role, email, password string) (string, error) {
	const op = "auth.SignInWithPassword"
	logger := a.log.With(slog.String("op", op), slog.String("email", email), slog.String("role", role))

	acc, err := a.findAccount(ctx, role, email)
	if err != nil {
		if isNotFound(err) {
			logger.Warn("account not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get account", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get account: %w", op, err)
	}
	if err := bcrypt.CompareHashAndPassword(acc.passHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, acc.id, acc.email, role, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	logger.Info("signed in with password", slog.Int64("accountID", acc.id))
	return token, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrUserNotFound) ||
		errors.Is(err, storage.ErrSellerNotFound) ||
		errors.Is(err, storage.ErrPickupPointNotFound)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
