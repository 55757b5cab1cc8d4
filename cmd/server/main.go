package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/marketplace/internal/app"
	"github.com/linemk/marketplace/internal/app/handlers"
	"github.com/linemk/marketplace/internal/config"
	"github.com/linemk/marketplace/internal/lib/logger"
	"github.com/linemk/marketplace/internal/lib/logger/handlers/urllog"
	"github.com/linemk/marketplace/internal/lib/metrics"
	"github.com/linemk/marketplace/internal/payment"
	"github.com/linemk/marketplace/internal/service"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(metrics.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	sellerRepo := storage.NewSellerRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// The gateway stays nil without a secret key; payment endpoints then
	// fail closed with a configuration error.
	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = payment.NewStripeGateway(
			cfg.Stripe.SecretKey,
			cfg.Stripe.WebhookSecret,
			cfg.Stripe.SuccessURL,
			cfg.Stripe.CancelURL,
		)
	} else {
		log.Warn("STRIPE_SECRET_KEY is not set; payment link creation will fail")
	}

	sellerService := service.NewSellerService(application.Logger, sellerRepo)
	productService := service.NewProductService(application.Logger, sellerRepo, productRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, productRepo, orderRepo)
	paymentService := service.NewPaymentService(application.Logger, application.DB, orderRepo, gateway)

	router.Route("/sellers", func(r chi.Router) {
		r.Post("/", handlers.CreateSellerHandler(application.Logger, sellerService))
		r.Get("/", handlers.ListSellersHandler(application.Logger, sellerService))
		r.Patch("/{id}", handlers.UpdateSellerHandler(application.Logger, sellerService))
		r.Delete("/{id}", handlers.DeleteSellerHandler(application.Logger, sellerService))
	})

	router.Route("/products", func(r chi.Router) {
		r.Post("/", handlers.CreateProductHandler(application.Logger, productService))
		r.Get("/", handlers.ListProductsHandler(application.Logger, productService))
		r.Patch("/{id}", handlers.UpdateProductHandler(application.Logger, productService))
	})

	router.Route("/orders", func(r chi.Router) {
		r.Post("/", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/{id}", handlers.GetOrderHandler(application.Logger, orderService))
		r.Patch("/{id}/cancel", handlers.CancelOrderHandler(application.Logger, orderService))
		r.Post("/{id}/pay", handlers.CreatePaymentLinkHandler(application.Logger, paymentService, "id"))
	})

	router.Route("/payments", func(r chi.Router) {
		r.Post("/{orderId}/create-link", handlers.CreatePaymentLinkHandler(application.Logger, paymentService, "orderId"))
		r.Post("/webhooks/stripe", handlers.StripeWebhookHandler(application.Logger, paymentService))
	})

	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
