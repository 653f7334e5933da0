package main

import (
	"context"

	authhandler "tourbook/internal/auth/handler"
	authservice "tourbook/internal/auth/service"
	bookinghandler "tourbook/internal/bookings/handler"
	bookingrepo "tourbook/internal/bookings/repository"
	bookingservice "tourbook/internal/bookings/service"
	bookingvalidator "tourbook/internal/bookings/validator"
	healthhandler "tourbook/internal/health/handler"
	"tourbook/internal/payments/gateway"
	paymenthandler "tourbook/internal/payments/handler"
	paymentrepo "tourbook/internal/payments/repository"
	paymentservice "tourbook/internal/payments/service"
	tourhandler "tourbook/internal/tours/handler"
	tourrepo "tourbook/internal/tours/repository"
	tourservice "tourbook/internal/tours/service"
	tourvalidator "tourbook/internal/tours/validator"
	userhandler "tourbook/internal/users/handler"
	userrepo "tourbook/internal/users/repository"
	userservice "tourbook/internal/users/service"
	uservalidator "tourbook/internal/users/validator"
	"tourbook/pkg/app"
	"tourbook/pkg/config"
	"tourbook/pkg/events"
)

func main() {
	cfg := config.Load("api")
	cfg.SetMongo()
	cfg.SetRedis()

	tours := tourrepo.NewMongoTourRepository(cfg)
	tourTypes := tourrepo.NewMongoTourTypeRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	payments := paymentrepo.NewMongoPaymentRepository(cfg)
	users := userrepo.NewMongoUserRepository(cfg)

	ensureIndexes(cfg, tours, payments, users)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, cfg.Log)
	paymentGateway := gateway.NewHTTPGateway(cfg)

	tourSvc := tourservice.NewTourService(tours, tourvalidator.NewTourValidator(cfg.Log), cfg)
	tourTypeSvc := tourservice.NewTourTypeService(tourTypes, tourvalidator.NewTourValidator(cfg.Log), cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookings, payments, tours, paymentGateway,
		bookingvalidator.NewBookingValidator(cfg.Log), publisher, cfg,
	)
	paymentSvc := paymentservice.NewPaymentService(payments, bookings, publisher, cfg)
	userSvc := userservice.NewUserService(users, uservalidator.NewUserValidator(cfg.Log), cfg)
	authSvc := authservice.NewAuthService(users, cfg)

	if err := userSvc.SeedSuperAdmin(context.Background()); err != nil {
		cfg.Log.Error("Super admin seed failed", "error", err)
	}

	application := app.NewApplication(cfg,
		healthhandler.NewHealthHandler(cfg),
		authhandler.NewAuthHandler(authSvc, cfg),
		userhandler.NewUserHandler(userSvc, cfg),
		tourhandler.NewTourHandler(tourSvc, tourTypeSvc, cfg),
		bookinghandler.NewBookingHandler(bookingSvc, cfg),
		paymenthandler.NewPaymentHandler(paymentSvc, cfg),
	)
	application.RegisterCloser(publisher)
	application.Run()
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(cfg *config.Config, indexers ...indexer) {
	ctx := context.Background()
	for _, idx := range indexers {
		if err := idx.EnsureIndexes(ctx); err != nil {
			cfg.Log.Error("Failed to ensure indexes", "error", err)
		}
	}
}
