package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow/internal/auth"
	"github.com/BuzzLyutic/taskflow/internal/config"
	"github.com/BuzzLyutic/taskflow/internal/handler"
	"github.com/BuzzLyutic/taskflow/internal/reminder"
	"github.com/BuzzLyutic/taskflow/internal/repo"
	"github.com/BuzzLyutic/taskflow/internal/service"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	taskService := service.NewTaskService(taskRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtManager))
			r.Get("/me", authHandler.Me)
			r.Put("/me", authHandler.UpdateMe)
		})
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtManager))
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/stats/summary", taskHandler.Stats)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	// Фоновый сканер дедлайнов
	scanner := reminder.NewScanner(pool, logger, cfg.ReminderWorkers, time.Minute)
	scanner.Start(context.Background())

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scanner.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
