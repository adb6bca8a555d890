package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/revorbit/auto-frames/docs"
	"github.com/revorbit/auto-frames/internal/api/handlers"
	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/cache"
	"github.com/revorbit/auto-frames/internal/config"
	"github.com/revorbit/auto-frames/internal/health"
	"github.com/revorbit/auto-frames/internal/metrics"
	"github.com/revorbit/auto-frames/internal/migrate"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/internal/tracing"
	"github.com/revorbit/auto-frames/pkg/sendgrid"
	"github.com/revorbit/auto-frames/pkg/stripe"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						REV-orbit Auto Frames API
//	@version					1.0
//	@description				Storefront backend for catalog frames, the design studio and the checkout wizard.
//	@host						localhost:8085
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := migrate.Apply(ctx, cfg.Database.GetDSN()); err != nil {
		slog.Error("Error applying migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer redisCache.Close()

	sessions := repository.NewSessionRepo(redisCache, cfg.Checkout.SessionTTL)
	rateLimiter := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName,
		sendgrid.WithBaseURL(cfg.SendGrid.Endpoint), sendgrid.WithReplyTo(cfg.SendGrid.ReplyTo))

	productService := service.NewProductService(repos.Product)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	designService := service.NewDesignService(repos.Design)
	notificationService := service.NewNotificationService(repos.Notification, sendGridClient)
	orderService := service.NewOrderService(repos.Order, redisCache, stripeClient)
	paymentService := service.NewPaymentService(repos.Payment, repos.Order, sessions, redisCache, stripeClient)
	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Sessions:      sessions,
		Carts:         repos.Cart,
		Designs:       repos.Design,
		Orders:        repos.Order,
		Payments:      repos.Payment,
		RateLimiter:   rateLimiter,
		Stripe:        stripeClient,
		Notifications: notificationService,
		Currency:      cfg.Stripe.Currency,
	})

	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	designHandler := handlers.NewDesignHandler(designService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, orderService)

	healthChecker, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	auth := authMiddleware.Authenticate
	admin := func(next http.Handler) http.HandlerFunc {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(next))
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/admin/products", admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/admin/products/{id}", admin(productHandler.UpdateProduct()))

	routerMux.HandleFunc("GET /api/v1/cart", auth(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/cart", auth(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", auth(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{id}", auth(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", auth(cartHandler.RemoveItem()))

	routerMux.HandleFunc("GET /api/v1/studio/options", designHandler.StudioOptions())
	routerMux.HandleFunc("GET /api/v1/designs", auth(designHandler.ListDesigns()))
	routerMux.HandleFunc("POST /api/v1/designs", auth(designHandler.CreateDesign()))
	routerMux.HandleFunc("GET /api/v1/designs/{id}", auth(designHandler.GetDesign()))
	routerMux.HandleFunc("PUT /api/v1/designs/{id}", auth(designHandler.UpdateDesign()))

	routerMux.HandleFunc("POST /api/v1/checkout/sessions", auth(checkoutHandler.StartCheckout()))
	routerMux.HandleFunc("GET /api/v1/checkout/sessions/{id}", auth(checkoutHandler.GetCheckout()))
	routerMux.HandleFunc("POST /api/v1/checkout/sessions/{id}/refresh", auth(checkoutHandler.RefreshCart()))
	routerMux.HandleFunc("PUT /api/v1/checkout/sessions/{id}/shipping", auth(checkoutHandler.UpdateShipping()))
	routerMux.HandleFunc("PUT /api/v1/checkout/sessions/{id}/shipping-method", auth(checkoutHandler.SelectShippingMethod()))
	routerMux.HandleFunc("POST /api/v1/checkout/sessions/{id}/promo", auth(checkoutHandler.ApplyPromo()))
	routerMux.HandleFunc("DELETE /api/v1/checkout/sessions/{id}/promo", auth(checkoutHandler.RemovePromo()))
	routerMux.HandleFunc("POST /api/v1/checkout/sessions/{id}/advance", auth(checkoutHandler.Advance()))
	routerMux.HandleFunc("POST /api/v1/checkout/sessions/{id}/retreat", auth(checkoutHandler.Retreat()))
	routerMux.HandleFunc("POST /api/v1/checkout/sessions/{id}/payment", auth(checkoutHandler.CreatePayment()))

	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleStripeWebhook())

	routerMux.HandleFunc("GET /api/v1/orders", auth(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", auth(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", admin(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("GET /api/v1/admin/orders/{id}/notifications", admin(notificationHandler.ListOrderNotifications()))
	routerMux.HandleFunc("POST /api/v1/admin/orders/{id}/notifications", admin(notificationHandler.ResendOrderConfirmation()))

	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining; metrics sits next to the mux so it sees the matched pattern
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Failed to flush traces", slog.String("error", err.Error()))
	}

}
