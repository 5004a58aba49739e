package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/limarket/marketplace/internal/forms"
	"github.com/limarket/marketplace/internal/jwt-new/jwtmiddleware"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
)

// GetCurrentUserHandler обрабатывает GET /api/users/current.
func GetCurrentUserHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCurrentUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := profileService.GetCurrentUser(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get user", slog.Any("error", err))
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "Пользователь не найден")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateProfileRequest — частичное обновление анкеты: отсутствующее поле
// остаётся прежним.
type UpdateProfileRequest struct {
	Surname     *string `json:"surname"`
	Name        *string `json:"name"`
	Patronymic  *string `json:"patronymic"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UpdateProfileHandler обрабатывает PATCH /api/users/current.
func UpdateProfileHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProfileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		errRecord := forms.ErrorRecord{}
		if req.Name != nil {
			errRecord.Set(forms.Name(*req.Name), "name")
		}
		if req.Surname != nil {
			errRecord.Set(forms.Surname(*req.Surname), "surname")
		}
		if req.PhoneNumber != nil && *req.PhoneNumber != "" {
			errRecord.Set(forms.Phone(*req.PhoneNumber), "phoneNumber")
		}
		if forms.HasErrors(errRecord) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errRecord)
			return
		}

		user, err := profileService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
			Surname:     req.Surname,
			Name:        req.Name,
			Patronymic:  req.Patronymic,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			logger.Error("failed to update profile", slog.Any("error", err))
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "Пользователь не найден")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateEmailRequest — смена почты; код подтверждения приходит на новый адрес.
type UpdateEmailRequest struct {
	NewEmail         string `json:"newEmail" validate:"required"`
	VerificationCode string `json:"verificationCode" validate:"required"`
}

// UpdateEmailHandler обрабатывает POST /api/users/current/email.
func UpdateEmailHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateEmailHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req UpdateEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		values := forms.Values{
			"newEmail":         req.NewEmail,
			"verificationCode": req.VerificationCode,
		}
		if errs := forms.ValidateAll(forms.EmailUpdate(nil, nil), values); forms.HasErrors(errs) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		if err := profileService.UpdateEmail(r.Context(), userID, req.NewEmail, req.VerificationCode); err != nil {
			logger.Error("failed to update email", slog.Any("error", err))
			switch {
			case errors.Is(err, service.ErrInvalidCode):
				writeError(w, http.StatusUnauthorized, "Неверный или устаревший код подтверждения")
			case errors.Is(err, service.ErrEmailTaken):
				writeError(w, http.StatusConflict, "Эта электронная почта уже зарегистрирована")
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Email updated"})
	}
}

// UpdatePasswordRequest — смена пароля: текущий пароль плюс код на почту.
type UpdatePasswordRequest struct {
	CurrentPassword  string `json:"currentPassword" validate:"required"`
	NewPassword      string `json:"newPassword" validate:"required"`
	VerificationCode string `json:"verificationCode" validate:"required"`
}

// UpdatePasswordHandler обрабатывает POST /api/users/current/password.
func UpdatePasswordHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePasswordHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req UpdatePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		values := forms.Values{
			"currentPassword":  req.CurrentPassword,
			"newPassword":      req.NewPassword,
			"verificationCode": req.VerificationCode,
		}
		if errs := forms.ValidateAll(forms.PasswordUpdate(nil, nil), values); forms.HasErrors(errs) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		if err := profileService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.VerificationCode); err != nil {
			logger.Error("failed to update password", slog.Any("error", err))
			switch {
			case errors.Is(err, service.ErrWrongPassword):
				writeError(w, http.StatusUnauthorized, "Неверный текущий пароль")
			case errors.Is(err, service.ErrInvalidCode):
				writeError(w, http.StatusUnauthorized, "Неверный или устаревший код подтверждения")
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated"})
	}
}

// GetPickupPointHandler обрабатывает GET /api/pickup_points/current.
func GetPickupPointHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetPickupPointHandler"
		logger := log.With(slog.String("op", op))

		accountID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		point, err := profileService.GetPickupPoint(r.Context(), accountID)
		if err != nil {
			logger.Error("failed to get pickup point", slog.Any("error", err))
			if errors.Is(err, storage.ErrPickupPointNotFound) {
				writeError(w, http.StatusNotFound, "Пункт выдачи не найден")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, point)
	}
}

// UpdatePickupPointRequest — изменяемые поля пункта выдачи.
type UpdatePickupPointRequest struct {
	WorkingHours string `json:"workingHours" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	AddInfo      string `json:"addInfo"`
}

// UpdatePickupPointHandler обрабатывает PATCH /api/pickup_points/current.
func UpdatePickupPointHandler(log *slog.Logger, profileService service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePickupPointHandler"
		logger := log.With(slog.String("op", op))

		accountID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req UpdatePickupPointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		errRecord := forms.ErrorRecord{}
		errRecord.Set(forms.WorkingHours(req.WorkingHours), "workingHours")
		errRecord.Set(forms.Phone(req.PhoneNumber), "phoneNumber")
		if forms.HasErrors(errRecord) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errRecord)
			return
		}

		point, err := profileService.UpdatePickupPoint(r.Context(), accountID, req.WorkingHours, req.PhoneNumber, req.AddInfo)
		if err != nil {
			logger.Error("failed to update pickup point", slog.Any("error", err))
			if errors.Is(err, storage.ErrPickupPointNotFound) {
				writeError(w, http.StatusNotFound, "Пункт выдачи не найден")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, point)
	}
}
