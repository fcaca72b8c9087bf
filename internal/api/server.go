package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"katok/internal/auth"
	"katok/internal/config"
	"katok/internal/dedup"
	"katok/internal/external"
	"katok/internal/handlers"
	"katok/internal/logger"
	"katok/internal/mailer"
	"katok/internal/middleware"
	"katok/internal/qr"
	"katok/internal/schedule"
	"katok/internal/service"
	"katok/internal/ticket"
)

// Server представляет HTTP сервер сервиса билетов
type Server struct {
	router     *gin.Engine
	config     *config.Config
	dedupStore *dedup.Store
	services   *service.FulfillmentService
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	authenticator, err := auth.FromConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to build authenticator: %w", err)
	}

	// Хранилище дедупликации опционально: без него сервис ведет себя
	// как старые варианты и повторные уведомления не подавляются
	var dedupStore *dedup.Store
	var dedupIface service.DedupStore
	if cfg.Dedup.Addr != "" {
		dedupStore, err = dedup.NewStore(cfg.Dedup)
		if err != nil {
			return nil, fmt.Errorf("failed to connect dedup store: %w", err)
		}
		dedupIface = dedupStore
	} else {
		logger.Get().Warn("Dedup store is not configured, duplicate notifications will not be suppressed")
	}

	// Создание платежей включается только при настроенном магазине ЮKassa
	var payments service.PaymentGateway
	if cfg.YooKassa.ShopID != "" {
		payments = external.NewYooKassaClient(cfg.YooKassa)
	}

	sched := schedule.New(cfg.Schedule.MaxTicketsPerSession)
	resolver := ticket.NewResolver(cfg.Ticket.Source, sched)
	services := service.NewFulfillmentService(
		cfg.Ticket.SuccessEvent,
		cfg.Mail.Timeout,
		sched,
		resolver,
		qr.NewGenerator(),
		mailer.NewSMTPSender(cfg.Mail),
		dedupIface,
		payments,
	)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	server := &Server{
		router:     router,
		config:     cfg,
		dedupStore: dedupStore,
		services:   services,
	}

	server.setupRoutes(authenticator)

	return server, nil
}

// setupRoutes настраивает все роуты
func (s *Server) setupRoutes(authenticator auth.Authenticator) {
	h := handlers.NewHandlers(s.services, authenticator, s.config.Auth.APIKey)

	s.router.POST("/webhook", h.Webhook)
	s.router.POST("/create-payment", h.CreatePayment)
	s.router.GET("/", h.Root)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.NoRoute(h.NotFound)
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "katok-tickets",
		"version": "1.0.0",
	})
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.dedupStore != nil {
		if err := s.dedupStore.Close(); err != nil {
			logger.Get().Error("Error closing dedup store", "error", err)
			return err
		}
	}
	return nil
}
