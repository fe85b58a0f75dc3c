package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/senyabanana/freelance-service/internal/bridge"
	"github.com/senyabanana/freelance-service/internal/db"
	"github.com/senyabanana/freelance-service/internal/handlers"
	"github.com/senyabanana/freelance-service/internal/payments"
	"github.com/senyabanana/freelance-service/internal/repository"
	"github.com/senyabanana/freelance-service/internal/router"
	"github.com/senyabanana/freelance-service/internal/router/config"
	"github.com/senyabanana/freelance-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config:", err)
	}

	dbSource := cfg.PostgresConn
	if dbSource == "" {
		dbSource = db.BuildDatabaseURL(cfg)
	}
	runDBMigration(cfg.MigrationURL, dbSource)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	jobRepo := repository.NewPostgresJobRepository(dbPool)
	proposalRepo := repository.NewPostgresProposalRepository(dbPool)
	subscriptionRepo := repository.NewPostgresSubscriptionRepository(dbPool)
	paymentRepo := repository.NewPostgresPaymentRepository(dbPool)

	gateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	validator := payments.NewAppStoreValidator(cfg.AppStoreSharedSecret)
	products := payments.NewProductTable(cfg.StripePriceMonthly, cfg.StripePriceSixMonth, cfg.StripePriceMessages)

	bridgeTransport := bridge.NewQueueTransport()
	purchaseBridge := bridge.NewBridge(bridgeTransport, bridge.DefaultTimeout)

	jobService := services.NewJobService(jobRepo, dbPool)
	proposalService := services.NewProposalService(proposalRepo, gateway, dbPool)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, gateway, purchaseBridge, validator, products, cfg.SubscriptionManageURL)
	paymentService := services.NewPaymentService(proposalRepo, subscriptionRepo, paymentRepo, jobRepo, gateway)

	jobHandler := handlers.NewJobHandler(jobService, logger, 5*time.Second)
	proposalHandler := handlers.NewProposalHandler(proposalService, logger, 5*time.Second)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, logger, 5*time.Second)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger, 5*time.Second)
	bridgeHandler := handlers.NewBridgeHandler(purchaseBridge, bridgeTransport, logger)

	routes := router.InitRoutes(jobHandler, proposalHandler, subscriptionHandler, paymentHandler, bridgeHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
