// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Uday-0910/RetailReachAI/internal/config"
	"github.com/Uday-0910/RetailReachAI/internal/db"
	"github.com/Uday-0910/RetailReachAI/internal/event"
	"github.com/Uday-0910/RetailReachAI/internal/handler"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
	"github.com/Uday-0910/RetailReachAI/internal/service"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()
	logger.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to database")

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := event.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to AMQP broker")
		}
		defer p.Close()
		publisher = p
		logger.Info().Msg("connected to AMQP broker")
	}

	tenantRepo := &repository.TenantRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	logRepo := &repository.DeliveryLogRepository{DB: conn}
	store := &repository.DeliveryStore{DB: conn}

	locks := service.NewCampaignLocks()

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		Logger:       logger,
	}
	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		LogRepo:      logRepo,
		Store:        store,
		Locks:        locks,
		Logger:       logger,
	}
	deliveryService := &service.DeliveryService{
		CampaignRepo: campaignRepo,
		Store:        store,
		Locks:        locks,
		Publisher:    publisher,
		Logger:       logger,
	}
	analyticsService := &service.AnalyticsService{
		CustomerRepo: customerRepo,
		CampaignRepo: campaignRepo,
	}

	customerHandler := &handler.CustomerHandler{Service: customerService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService, Delivery: deliveryService}
	analyticsHandler := &handler.AnalyticsHandler{Service: analyticsService}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.TenantAuth(tenantRepo))

	r.Post("/customers", customerHandler.Create)
	r.Post("/customers/import", customerHandler.Import)
	r.Get("/customers", customerHandler.List)
	r.Delete("/customers/{id}", customerHandler.Delete)

	r.Post("/campaigns", campaignHandler.Create)
	r.Get("/campaigns", campaignHandler.List)
	r.Get("/campaigns/{id}", campaignHandler.Detail)
	r.Delete("/campaigns/{id}", campaignHandler.Delete)
	r.Post("/campaigns/{id}/send", campaignHandler.Send)

	r.Get("/analytics/summary", analyticsHandler.Summary)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("server running")
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
