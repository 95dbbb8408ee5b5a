package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lenshaus/atelier/internal"
	"github.com/lenshaus/atelier/internal/cookie"
	"github.com/lenshaus/atelier/internal/handler/storefront"
	"github.com/lenshaus/atelier/internal/middleware"
	"github.com/lenshaus/atelier/internal/payment"
	"github.com/lenshaus/atelier/internal/promo"
	"github.com/lenshaus/atelier/internal/repository"
	"github.com/lenshaus/atelier/internal/router"
	"github.com/lenshaus/atelier/internal/routes"
	"github.com/lenshaus/atelier/internal/service"
	"github.com/lenshaus/atelier/internal/shipping"
	"github.com/lenshaus/atelier/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize repository
	repo := repository.New(pool)

	// Initialize payment provider
	logger.Info("Initializing payment provider...")
	provider, err := payment.NewPayOSProvider(payment.PayOSConfig{
		ClientID:    cfg.PayOS.ClientID,
		APIKey:      cfg.PayOS.APIKey,
		ChecksumKey: cfg.PayOS.ChecksumKey,
		BaseURL:     cfg.PayOS.BaseURL,
		ReturnURL:   cfg.PayOS.ReturnURL,
		CancelURL:   cfg.PayOS.CancelURL,
		Timeout:     30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize payment provider: %w", err)
	}
	logger.Info("Payment provider initialized")

	// Initialize shipping calculator
	shippingCalc := shipping.NewFlatRateCalculator(cfg.Shipping.FlatFee, cfg.Shipping.FreeForLensOrders)

	// Promo codes are a static table for now. TODO: move promo codes into
	// the database once the back office can manage them
	promoLookup := promo.NewStaticLookup([]promo.Promo{
		{Code: "WELCOME50", Amount: 50000},
		{Code: "FREESHIP30", Amount: 30000},
	})

	// Initialize services
	cartService := service.NewCartService(repo)
	orderService := service.NewOrderService(repo, pool, cartService, logger)
	checkoutService := service.NewCheckoutService(repo, cartService, orderService, provider, promoLookup, shippingCalc, logger)
	reconcileService := service.NewReconcileService(repo, orderService, provider, logger)
	logger.Info("Services initialized")

	// Initialize metrics
	metrics := middleware.NewMetrics("lenshaus")
	business := telemetry.NewBusinessMetrics("lenshaus")

	// Cookie configuration
	cookies := cookie.NewConfig(cfg.Env != "dev")

	// Storefront dependencies
	storefrontDeps := routes.StorefrontDeps{
		CartHandler:          storefront.NewCartHandler(cartService, cookies, business),
		CheckoutHandler:      storefront.NewCheckoutHandler(checkoutService, cartService, business),
		PaymentReturnHandler: storefront.NewPaymentReturnHandler(reconcileService, business),
		OrderHandler:         storefront.NewOrderHandler(orderService),
	}

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		middleware.MaxBodySize(),
		router.Logger(logger),
	)

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting storefront server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
