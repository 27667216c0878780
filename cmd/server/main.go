package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parceltrack-service/internal/infrastructure/auth"
	"parceltrack-service/internal/infrastructure/config"
	"parceltrack-service/internal/infrastructure/persistence"
	"parceltrack-service/internal/interface/payment"
	mongoRepo "parceltrack-service/internal/interface/repository"
	"parceltrack-service/internal/interface/rest"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Parceltrack Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)
	txRunner := persistence.NewMongoTxRunner(mongoClient)

	// Set up repositories
	parcelRepo := mongoRepo.NewMongoParcelRepository(db)
	riderRepo := mongoRepo.NewMongoRiderRepository(db)
	userRepo := mongoRepo.NewMongoUserRepository(db)
	paymentRepo := mongoRepo.NewMongoPaymentRepository(db)
	trackingRepo := mongoRepo.NewMongoTrackingRepository(db)

	// Set up external providers
	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID, log)
	if err != nil {
		log.Fatal("Failed to initialize identity verifier", "error", err)
	}
	stripeGateway := payment.NewStripeGateway(cfg.StripeSecretKey, log)

	// Set up usecases
	m := metrics.NewMetrics("parceltrack")
	lifecycle := usecase.NewDeliveryLifecycle(parcelRepo, riderRepo, userRepo, trackingRepo, txRunner, log)
	recorder := usecase.NewPaymentRecorder(parcelRepo, paymentRepo, stripeGateway, txRunner, m, log)
	trackingLog := usecase.NewTrackingLog(trackingRepo, log)

	// Set up HTTP surface
	guard := rest.NewGuard(verifier, userRepo, log)
	router := rest.NewRouter(rest.Handlers{
		Users:     rest.NewUserHandler(userRepo, log),
		Parcels:   rest.NewParcelHandler(parcelRepo, lifecycle, m, log),
		Payments:  rest.NewPaymentHandler(recorder, log),
		Riders:    rest.NewRiderHandler(riderRepo, parcelRepo, lifecycle, log),
		Trackings: rest.NewTrackingHandler(trackingLog, log),
	}, guard, m)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Parceltrack Service stopped")
}
