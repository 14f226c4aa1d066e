package main

import (
	"database/sql"
	"log"
	"net/http"
	"runtime/debug"

	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"postlinkBack/internal/config"
	"postlinkBack/internal/handlers"
	"postlinkBack/internal/repositories"
	"postlinkBack/internal/services"
	"postlinkBack/utils"
)

type application struct {
	errorLog   *log.Logger
	infoLog    *log.Logger
	signingKey string
	db         *sql.DB
	wsManager  *WebSocketManager

	publisherRepo *repositories.PublisherRepository
	websiteRepo   *repositories.WebsiteRepository
	orderRepo     *repositories.OrderRepository
	paymentRepo   *repositories.PaymentRepository
	ticketRepo    *repositories.TicketRepository

	paymentService   *services.PaymentService
	linkCheckService *services.LinkCheckService

	publisherHandler *handlers.PublisherHandler
	websiteHandler   *handlers.WebsiteHandler
	orderHandler     *handlers.OrderHandler
	paymentHandler   *handlers.PaymentHandler
	ticketHandler    *handlers.TicketHandler
}

type appDeps struct {
	fcm     *messaging.Client
	redis   *redis.Client
	storage *utils.Storage
	tokens  *utils.Manager
}

func initializeApp(db *sql.DB, cfg config.Config, deps appDeps, errorLog, infoLog *log.Logger) *application {
	// Repositories
	publisherRepo := &repositories.PublisherRepository{DB: db}
	websiteRepo := &repositories.WebsiteRepository{DB: db}
	orderRepo := &repositories.OrderRepository{DB: db}
	paymentRepo := &repositories.PaymentRepository{DB: db}
	ticketRepo := &repositories.TicketRepository{DB: db}

	// Services
	wsManager := NewWebSocketManager()

	emailService := services.NewEmailService(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From)
	notifier := &services.NotificationService{
		FCMClient:  deps.fcm,
		Publishers: publisherRepo,
		Email:      emailService,
		WS:         wsManager,
		AdminEmail: cfg.Admin.Email,
	}

	var cache *services.DashboardCache
	if deps.redis != nil {
		cache = services.NewDashboardCache(deps.redis)
	}

	authService := &services.AuthService{
		PublisherRepo: publisherRepo,
		Tokens:        deps.tokens,
		SigningKey:    cfg.JWT.SigningKey,
	}
	publisherService := &services.PublisherService{
		PublisherRepo: publisherRepo,
		WebsiteRepo:   websiteRepo,
		OrderRepo:     orderRepo,
		PaymentRepo:   paymentRepo,
		Cache:         cache,
	}
	websiteService := &services.WebsiteService{
		WebsiteRepo:   websiteRepo,
		PublisherRepo: publisherRepo,
		Notifier:      notifier,
		Cache:         cache,
	}
	orderService := &services.OrderService{
		OrderRepo:     orderRepo,
		WebsiteRepo:   websiteRepo,
		PublisherRepo: publisherRepo,
		Notifier:      notifier,
		Cache:         cache,
	}
	paymentService := &services.PaymentService{
		PaymentRepo:   paymentRepo,
		OrderRepo:     orderRepo,
		PublisherRepo: publisherRepo,
		Notifier:      notifier,
		Cache:         cache,
	}
	ticketService := &services.TicketService{TicketRepo: ticketRepo}
	linkCheckService := services.NewLinkCheckService(orderRepo)

	// Handlers
	publisherHandler := &handlers.PublisherHandler{Service: publisherService, AuthService: authService}
	websiteHandler := &handlers.WebsiteHandler{Service: websiteService}
	orderHandler := &handlers.OrderHandler{Service: orderService, Storage: deps.storage}
	paymentHandler := &handlers.PaymentHandler{Service: paymentService}
	ticketHandler := &handlers.TicketHandler{Service: ticketService}

	return &application{
		errorLog:   errorLog,
		infoLog:    infoLog,
		signingKey: cfg.JWT.SigningKey,
		db:         db,
		wsManager:  wsManager,

		publisherRepo: publisherRepo,
		websiteRepo:   websiteRepo,
		orderRepo:     orderRepo,
		paymentRepo:   paymentRepo,
		ticketRepo:    ticketRepo,

		paymentService:   paymentService,
		linkCheckService: linkCheckService,

		publisherHandler: publisherHandler,
		websiteHandler:   websiteHandler,
		orderHandler:     orderHandler,
		paymentHandler:   paymentHandler,
		ticketHandler:    ticketHandler,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	app.errorLog.Printf("%v\n%s", err, debug.Stack())
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
