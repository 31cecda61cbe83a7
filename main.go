package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"prestige-rentals/internal/auth"
	"prestige-rentals/internal/checkin"
	checkin_api "prestige-rentals/internal/checkin/api"
	"prestige-rentals/internal/config"
	"prestige-rentals/internal/database/migrations"
	"prestige-rentals/internal/email"
	"prestige-rentals/internal/kafka"
	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/order"
	orderdb "prestige-rentals/internal/order/db"
	"prestige-rentals/internal/order/order_api"
	rediswrap "prestige-rentals/internal/order/redis"
	"prestige-rentals/internal/reconciler"
	review_api "prestige-rentals/internal/review/api"
	reviewdb "prestige-rentals/internal/review/db"
	ticket_api "prestige-rentals/internal/tickets/api"
	ticketdb "prestige-rentals/internal/tickets/db"
	"prestige-rentals/internal/user"
	user_api "prestige-rentals/internal/user/api"
	userdb "prestige-rentals/internal/user/db"
	"prestige-rentals/internal/vehicle"
	vehicle_api "prestige-rentals/internal/vehicle/api"
	vehicledb "prestige-rentals/internal/vehicle/db"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "PostgreSQL connection successful")
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Rental Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("CONFIG", "JWT_SECRET not set")
	}

	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	migrationRunner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := migrationRunner.RunMigrations(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	defer migrationRunner.Close()

	var events order.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer kafkaProducer.Close()
		logger.Info("KAFKA", "Kafka producer initialized successfully")

		requiredTopics := []string{
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderCancelled,
			cfg.Kafka.Topics.OrderExpired,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
		events = kafkaProducer
	} else {
		logger.Warn("KAFKA", "Kafka disabled, order events will not be published")
	}

	mailer := email.NewSender(cfg.Email)
	tokens := auth.NewTokenGenerator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	orderStore := &orderdb.DB{Bun: bunDB}
	vehicleStore := &vehicledb.DB{Bun: bunDB}
	userStore := &userdb.DB{Bun: bunDB}
	vehicleLock := rediswrap.NewRedis(redisClient, cfg.Redis.LockTTL)

	orderService := order.NewOrderService(
		orderStore,
		vehicleStore,
		userStore,
		vehicleLock,
		mailer,
		events,
		order.Topics{
			OrderCreated:   cfg.Kafka.Topics.OrderCreated,
			OrderCancelled: cfg.Kafka.Topics.OrderCancelled,
		},
		logger,
	)
	vehicleService := vehicle.NewVehicleService(vehicleStore, orderStore, logger)
	userService := user.NewUserService(userStore, tokens, logger)
	checkinService := checkin.NewService(orderStore, logger)

	orderHandler := &order_api.Handler{OrderService: orderService, Logger: logger}
	vehicleHandler := &vehicle_api.Handler{VehicleService: vehicleService, Logger: logger}
	userHandler := &user_api.Handler{UserService: userService, Logger: logger}
	checkinHandler := &checkin_api.Handler{Checkin: checkinService, Logger: logger}
	reviewHandler := &review_api.Handler{DB: &reviewdb.DB{Bun: bunDB}, Logger: logger}
	ticketHandler := &ticket_api.Handler{DB: &ticketdb.DB{Bun: bunDB}, Logger: logger}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Get("/api/vehicle", vehicleHandler.GetAllVehicles)
	r.Get("/api/vehicle/filters", vehicleHandler.GetFilterOptions)
	r.Get("/api/vehicle/{vehicleId}", vehicleHandler.GetVehicle)
	r.Get("/api/vehicle/{vehicleId}/options", vehicleHandler.GetOptions)
	r.Get("/api/vehicle/{vehicleId}/booked-ranges", vehicleHandler.GetBookedRanges)
	r.Get("/api/review/vehicle/{vehicleId}", reviewHandler.GetReviewsForVehicle)
	r.Post("/api/ticket", ticketHandler.CreateTicket)
	logger.Info("ROUTER", "Public routes registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))
		logger.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api/order", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.GetAllOrders)
			r.Get("/user", orderHandler.GetOrdersForUser)
			r.Get("/{orderId}", orderHandler.GetOrder)
			r.Put("/cancel/{orderId}", orderHandler.CancelOrder)
		})
		r.Post("/api/payment/mockpay", orderHandler.MockPayment)
		logger.Info("ROUTER", "Order routes registered under /api/order")

		r.Post("/api/image/booking/validate-qrcode", checkinHandler.ValidateQRCode)
		logger.Info("ROUTER", "Check-in route registered under /api/image/booking/validate-qrcode")

		r.Route("/api/vehicle", func(r chi.Router) {
			r.Post("/", vehicleHandler.CreateVehicle)
			r.Put("/{vehicleId}", vehicleHandler.UpdateVehicle)
			r.Delete("/{vehicleId}", vehicleHandler.DeleteVehicle)
			r.Put("/{vehicleId}/options", vehicleHandler.SetOptions)
		})

		r.Route("/api/user", func(r chi.Router) {
			r.Get("/", userHandler.GetAllUsers)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Get("/{userId}", userHandler.GetUser)
			r.Delete("/{userId}", userHandler.DeleteUser)
		})

		r.Post("/api/review", reviewHandler.CreateReview)
		r.Delete("/api/review/{reviewId}", reviewHandler.DeleteReview)

		r.Get("/api/ticket", ticketHandler.GetAllTickets)
		r.Get("/api/ticket/{ticketId}", ticketHandler.GetTicket)
		r.Delete("/api/ticket/{ticketId}", ticketHandler.DeleteTicket)
		logger.Info("ROUTER", "Vehicle, user, review and ticket routes registered")
	})

	sweeper := reconciler.New(orderStore, vehicleStore, userStore, mailer, cfg.Worker.SweepInterval, logger).
		WithEvents(events, cfg.Kafka.Topics.OrderExpired)
	workerCtx, cancelWorker := context.WithCancel(ctx)
	go sweeper.Start(workerCtx)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("Rental Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancelWorker()

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}
	logger.Info("APP", "Shutdown complete")
}
