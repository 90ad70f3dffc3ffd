package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-client/clients"
	"storefront-client/config"
	"storefront-client/database"
	"storefront-client/logger"
	"storefront-client/middleware"
	"storefront-client/routes"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Initialize(cfg.Env)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	api := clients.NewAPIClient(cfg.APIBaseURL, cfg.RequestTimeout, log)

	session := services.NewSessionService(api, store, log)
	cart := services.NewCartService(services.Pricing{TaxRate: cfg.TaxRate, DeliveryFee: cfg.DeliveryFee})

	var snapshots services.CartSnapshots
	if cfg.CartPersist {
		snapshots = database.NewCartRepository(store)
	}
	cartSync := services.NewCartSync(cart, snapshots, session, log)
	session.AddListener(cartSync)

	// Restore the persisted session before serving
	session.Initialize(context.Background())
	log.Info("Session initialized", zap.String("state", session.State().String()))

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitRPM), cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	router := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Session:     session,
		Cart:        cart,
		CartSync:    cartSync,
		Checkout:    services.NewCheckoutService(session, cart, api, cartSync, log),
		Catalog:     services.NewCatalogService(api, session, log),
		Orders:      services.NewOrderService(api, session, log),
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Storefront shell is running", zap.String("port", cfg.Port), zap.String("backend", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
	cartSync.Save(ctx)
	log.Info("Server shutdown complete.")
}
