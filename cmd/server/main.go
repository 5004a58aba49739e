package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/limarket/marketplace/internal/app"
	"github.com/limarket/marketplace/internal/app/handlers"
	"github.com/limarket/marketplace/internal/config"
	"github.com/limarket/marketplace/internal/domain/models"
	"github.com/limarket/marketplace/internal/jwt-new/jwtmiddleware"
	"github.com/limarket/marketplace/internal/lib/logger"
	"github.com/limarket/marketplace/internal/lib/logger/handlers/urllog"
	"github.com/limarket/marketplace/internal/service"
	"github.com/limarket/marketplace/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	sellerRepo := storage.NewSellerRepository(application.DB)
	pointRepo := storage.NewPickupPointRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	cardRepo := storage.NewCardRepository(application.DB)
	catalogRepo := storage.NewCatalogRepository(application.DB)
	verifyRepo := storage.NewVerificationRepository(application.DB)

	tokenTTL := time.Duration(cfg.JWT.TokenTTL) * time.Minute
	codeTTL := time.Duration(cfg.Auth.CodeTTL) * time.Minute

	authService := service.NewAuthService(application.Logger, userRepo, sellerRepo, pointRepo, verifyRepo, tokenTTL, codeTTL)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo, pointRepo)
	profileService := service.NewProfileService(application.Logger, userRepo, pointRepo, verifyRepo)
	cardService := service.NewCardService(application.Logger, application.DB, cardRepo)
	catalogService := service.NewCatalogService(application.Logger, catalogRepo)

	// открытые эндпоинты: регистрация, вход, каталог
	router.Post("/api/auth/send_code", handlers.SendCodeHandler(application.Logger, authService))
	router.Post("/api/auth/sign_up/user", handlers.SignUpUserHandler(application.Logger, authService))
	router.Post("/api/auth/sign_up/seller", handlers.SignUpSellerHandler(application.Logger, authService))
	router.Post("/api/auth/sign_up/pickup_point", handlers.SignUpPickupPointHandler(application.Logger, authService))
	router.Post("/api/auth/sign_in/with_code/{role}", handlers.SignInWithCodeHandler(application.Logger, authService, tokenTTL))
	router.Post("/api/auth/sign_in/with_password/{role}", handlers.SignInWithPasswordHandler(application.Logger, authService, tokenTTL))
	router.Get("/api/categories", handlers.GetCategoriesHandler(application.Logger, catalogService))
	router.Get("/api/categories/{categoryID}", handlers.GetCategoryHandler(application.Logger, catalogService))

	// эндпоинты для любой аутентифицированной роли
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware())
		r.Get("/api/auth/check", handlers.CheckHandler(application.Logger))
		r.Post("/api/auth/logout", handlers.LogoutHandler(application.Logger))
		r.Get("/api/orders/statuses", handlers.ListStatusesHandler(application.Logger))
	})

	// кабинет покупателя: заказы, профиль, карты
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(models.RoleUser))
		r.Post("/api/orders", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/api/orders", handlers.ListUserOrdersHandler(application.Logger, orderService))
		r.Get("/api/users/current", handlers.GetCurrentUserHandler(application.Logger, profileService))
		r.Patch("/api/users/current", handlers.UpdateProfileHandler(application.Logger, profileService))
		r.Post("/api/users/current/email", handlers.UpdateEmailHandler(application.Logger, profileService))
		r.Post("/api/users/current/password", handlers.UpdatePasswordHandler(application.Logger, profileService))
		r.Get("/api/cards", handlers.ListCardsHandler(application.Logger, cardService))
		r.Post("/api/cards", handlers.AddCardHandler(application.Logger, cardService))
		r.Delete("/api/cards/{cardID}", handlers.DeleteCardHandler(application.Logger, cardService))
		r.Post("/api/cards/{cardID}/default", handlers.SetDefaultCardHandler(application.Logger, cardService))
	})

	// кабинет пункта выдачи: входящие заказы и смена статусов позиций
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(models.RolePickupPoint))
		r.Get("/api/orders/pickup_point", handlers.ListPickupPointOrdersHandler(application.Logger, orderService))
		r.Post("/api/orders/items/{itemID}/status", handlers.ChangeItemStatusHandler(application.Logger, orderService))
		r.Get("/api/pickup_points/current", handlers.GetPickupPointHandler(application.Logger, profileService))
		r.Patch("/api/pickup_points/current", handlers.UpdatePickupPointHandler(application.Logger, profileService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
