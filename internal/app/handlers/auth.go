package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/forms"
	"github.com/limarket/marketplace/internal/jwt-new/jwtmiddleware"
	"github.com/limarket/marketplace/internal/service"
)

var validate = validator.New()

// ErrorResponse — тело ответа с ошибкой; фронтенд читает message.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse — тело успешного ответа без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// authStatus переводит ошибку сервиса аутентификации в HTTP-статус:
// код/учётные данные — 401, занятая почта — 409, остальное — 500.
func authStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		return "Неверный или устаревший код подтверждения"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Неверная почта или пароль"
	case errors.Is(err, service.ErrEmailTaken):
		return "Эта электронная почта уже зарегистрирована"
	default:
		return "internal server error"
	}
}

// roleFromPath переводит параметр {role} в роль аккаунта.
func roleFromPath(r *http.Request) (string, bool) {
	switch chi.URLParam(r, "role") {
	case "user":
		return models.RoleUser, true
	case "seller":
		return models.RoleSeller, true
	case "pickup_point":
		return models.RolePickupPoint, true
	default:
		return "", false
	}
}

// SendCodeHandler обрабатывает запрос POST /api/auth/send_code?email=...
func SendCodeHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendCodeHandler"
		logger := log.With(slog.String("op", op))

		email := r.URL.Query().Get("email")
		if msg := forms.Email(email); msg != "" {
			logger.Error("invalid email", slog.String("email", email))
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if err := authService.SendCode(r.Context(), email); err != nil {
			logger.Error("failed to send code", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Code sent"})
	}
}

// UserSignUpRequest — анкета регистрации покупателя.
type UserSignUpRequest struct {
	Email       string `json:"email" validate:"required"`
	VerifyCode  string `json:"verifyCode" validate:"required"`
	Password    string `json:"password" validate:"required"`
	UserProfile struct {
		Surname    string `json:"surname"`
		Name       string `json:"name"`
		Patronymic string `json:"patronymic"`
	} `json:"userProfile"`
}

// SignUpUserHandler обрабатывает запрос POST /api/auth/sign_up/user.
// Анкета приходит целиком, поэтому прогоняются валидаторы всех шагов формы.
func SignUpUserHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignUpUserHandler"
		logger := log.With(slog.String("op", op))

		var req UserSignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		values := forms.Values{
			"email":               req.Email,
			"verifyCode":          req.VerifyCode,
			"password":            req.Password,
			"userProfile.name":    req.UserProfile.Name,
			"userProfile.surname": req.UserProfile.Surname,
		}
		if errs := forms.ValidateAll(forms.UserSignUp(nil, nil), values); forms.HasErrors(errs) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		profile := models.UserProfile{
			Surname:    req.UserProfile.Surname,
			Name:       req.UserProfile.Name,
			Patronymic: req.UserProfile.Patronymic,
		}
		if err := authService.SignUpUser(r.Context(), req.Email, req.VerifyCode, req.Password, profile); err != nil {
			logger.Error("sign up failed", slog.Any("error", err))
			writeError(w, authStatus(err), authMessage(err))
			return
		}
		writeJSON(w, http.StatusCreated, MessageResponse{Message: "Account created"})
	}
}

// SellerSignUpRequest — анкета регистрации продавца.
type SellerSignUpRequest struct {
	Email               string `json:"email" validate:"required"`
	Password            string `json:"password" validate:"required"`
	Code                string `json:"code" validate:"required"`
	SellerCreateRequest struct {
		Person struct {
			Surname     string `json:"surname"`
			Name        string `json:"name"`
			Patronymic  string `json:"patronymic"`
			PhoneNumber string `json:"phoneNumber"`
		} `json:"person"`
		FullCompanyName  string `json:"fullCompanyName"`
		ShortCompanyName string `json:"shortCompanyName"`
		Description      string `json:"description"`
		PaymentDetail    struct {
			BankAccountNumber string `json:"bankAccountNumber"`
			BankName          string `json:"bankName"`
			BIC               string `json:"bic"`
			AccountHolderName string `json:"accountHolderName"`
			INN               string `json:"inn"`
		} `json:"paymentDetail"`
	} `json:"sellerCreateRequest"`
}

// SignUpSellerHandler обрабатывает запрос POST /api/auth/sign_up/seller.
func SignUpSellerHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignUpSellerHandler"
		logger := log.With(slog.String("op", op))

		var req SellerSignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		sc := req.SellerCreateRequest
		values := forms.Values{
			"email":                           req.Email,
			"code":                            req.Code,
			"password":                        req.Password,
			"person.surname":                  sc.Person.Surname,
			"person.name":                     sc.Person.Name,
			"person.phoneNumber":              sc.Person.PhoneNumber,
			"fullCompanyName":                 sc.FullCompanyName,
			"shortCompanyName":                sc.ShortCompanyName,
			"paymentDetail.bankName":          sc.PaymentDetail.BankName,
			"paymentDetail.bankAccountNumber": sc.PaymentDetail.BankAccountNumber,
			"paymentDetail.bic":               sc.PaymentDetail.BIC,
			"paymentDetail.accountHolderName": sc.PaymentDetail.AccountHolderName,
			"paymentDetail.inn":               sc.PaymentDetail.INN,
		}
		if errs := forms.ValidateAll(forms.SellerSignUp(nil, nil), values); forms.HasErrors(errs) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		seller := &models.Seller{
			Profile: models.SellerProfile{
				FullCompanyName:  sc.FullCompanyName,
				ShortCompanyName: sc.ShortCompanyName,
				Description:      sc.Description,
			},
			Person: models.PersonDetail{
				Surname:     sc.Person.Surname,
				Name:        sc.Person.Name,
				Patronymic:  sc.Person.Patronymic,
				PhoneNumber: sc.Person.PhoneNumber,
			},
			Payment: models.PaymentDetail{
				BankAccountNumber: sc.PaymentDetail.BankAccountNumber,
				BankName:          sc.PaymentDetail.BankName,
				BIC:               sc.PaymentDetail.BIC,
				AccountHolderName: sc.PaymentDetail.AccountHolderName,
				INN:               sc.PaymentDetail.INN,
			},
		}
		if err := authService.SignUpSeller(r.Context(), req.Email, req.Code, req.Password, seller); err != nil {
			logger.Error("sign up failed", slog.Any("error", err))
			writeError(w, authStatus(err), authMessage(err))
			return
		}
		writeJSON(w, http.StatusCreated, MessageResponse{Message: "Account created"})
	}
}

// PickupPointSignUpRequest — анкета регистрации пункта выдачи.
type PickupPointSignUpRequest struct {
	Email                    string `json:"email" validate:"required"`
	Password                 string `json:"password" validate:"required"`
	Code                     string `json:"code" validate:"required"`
	PickupPointCreateRequest struct {
		ID      string `json:"id" validate:"required,uuid4"`
		Address struct {
			Region     string `json:"region"`
			City       string `json:"city"`
			Street     string `json:"street"`
			House      string `json:"house"`
			PostalCode string `json:"postalCode"`
		} `json:"address"`
		WorkingHours string `json:"workingHours"`
		PhoneNumber  string `json:"phoneNumber"`
		AddInfo      string `json:"addInfo"`
	} `json:"pickupPointCreateRequest"`
}

// SignUpPickupPointHandler обрабатывает запрос POST /api/auth/sign_up/pickup_point.
func SignUpPickupPointHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignUpPickupPointHandler"
		logger := log.With(slog.String("op", op))

		var req PickupPointSignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		pc := req.PickupPointCreateRequest
		values := forms.Values{
			"email":              req.Email,
			"code":               req.Code,
			"password":           req.Password,
			"address.region":     pc.Address.Region,
			"address.city":       pc.Address.City,
			"address.street":     pc.Address.Street,
			"address.house":      pc.Address.House,
			"address.postalCode": pc.Address.PostalCode,
			"workingHours":       pc.WorkingHours,
			"phoneNumber":        pc.PhoneNumber,
		}
		if errs := forms.ValidateAll(forms.PickupPointSignUp(nil, nil), values); forms.HasErrors(errs) {
			logger.Warn("form validation failed")
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		point := &models.PickupPoint{
			PointID: pc.ID,
			Address: models.Address{
				Region:     pc.Address.Region,
				City:       pc.Address.City,
				Street:     pc.Address.Street,
				House:      pc.Address.House,
				PostalCode: pc.Address.PostalCode,
			},
			WorkingHours: pc.WorkingHours,
			PhoneNumber:  pc.PhoneNumber,
			AddInfo:      pc.AddInfo,
		}
		if err := authService.SignUpPickupPoint(r.Context(), req.Email, req.Code, req.Password, point); err != nil {
			logger.Error("sign up failed", slog.Any("error", err))
			writeError(w, authStatus(err), authMessage(err))
			return
		}
		writeJSON(w, http.StatusCreated, MessageResponse{Message: "Account created"})
	}
}

// TokenResponse — ответ с JWT-токеном; токен также ставится в куку.
type TokenResponse struct {
	Token string `json:"token"`
}

func setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwtmiddleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignInWithCodeRequest — вход по одноразовому коду.
type SignInWithCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// SignInWithCodeHandler обрабатывает POST /api/auth/sign_in/with_code/{role}.
func SignInWithCodeHandler(log *slog.Logger, authService service.AuthServiceInterface, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignInWithCodeHandler"
		logger := log.With(slog.String("op", op))

		role, ok := roleFromPath(r)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown role")
			return
		}

		var req SignInWithCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.SignInWithCode(r.Context(), role, req.Email, req.Code)
		if err != nil {
			logger.Error("sign in failed", slog.Any("error", err))
			writeError(w, authStatus(err), authMessage(err))
			return
		}
		setTokenCookie(w, token, tokenTTL)
		writeJSON(w, http.StatusOK, TokenResponse{Token: token})
	}
}

// SignInWithPasswordRequest — вход по паролю.
type SignInWithPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInWithPasswordHandler обрабатывает POST /api/auth/sign_in/with_password/{role}.
func SignInWithPasswordHandler(log *slog.Logger, authService service.AuthServiceInterface, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignInWithPasswordHandler"
		logger := log.With(slog.String("op", op))

		role, ok := roleFromPath(r)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown role")
			return
		}

		var req SignInWithPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.SignInWithPassword(r.Context(), role, req.Email, req.Password)
		if err != nil {
			logger.Error("sign in failed", slog.Any("error", err))
			writeError(w, authStatus(err), authMessage(err))
			return
		}
		setTokenCookie(w, token, tokenTTL)
		writeJSON(w, http.StatusOK, TokenResponse{Token: token})
	}
}

// SessionResponse — ответ проверки сессии.
type SessionResponse struct {
	AccountID int64  `json:"accountId"`
	Role      string `json:"role"`
}

// CheckHandler обрабатывает GET /api/auth/check: подтверждает живую сессию.
func CheckHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		role, _ := jwtmiddleware.RoleFromContext(r.Context())
		writeJSON(w, http.StatusOK, SessionResponse{AccountID: accountID, Role: role})
	}
}

// LogoutHandler обрабатывает POST /api/auth/logout: сбрасывает куку с токеном.
func LogoutHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     jwtmiddleware.AccessTokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
	}
}
