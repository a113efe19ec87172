// Storefront is a product catalog and review service. Users authenticate with
// JWT bearer tokens, review products, and each review text is classified for
// sentiment by AWS Comprehend on a best-effort basis.
//
// @title Storefront API
// @version 1.0
// @description Product catalog and review service with JWT authentication and sentiment analysis.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/auth"
	"github.com/user/storefront-go/background"
	"github.com/user/storefront-go/config"
	"github.com/user/storefront-go/db"
	_ "github.com/user/storefront-go/docs" // Generated Swagger docs
	"github.com/user/storefront-go/products"
	"github.com/user/storefront-go/reviews"
	"github.com/user/storefront-go/sentiment"
	"github.com/user/storefront-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewDBPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The classifier is optional infrastructure. When disabled or unavailable
	// the service still runs; reviews are just stored without a label.
	var classifier sentiment.Classifier
	if cfg.Sentiment.Enabled {
		comprehendClassifier, err := sentiment.NewComprehendClassifier(context.Background(), cfg.Sentiment)
		if err != nil {
			log.Printf("Warning: sentiment classifier unavailable, reviews will be stored unlabeled: %v", err)
		} else {
			classifier = comprehendClassifier
		}
	}
	enricher := sentiment.NewEnricher(classifier, cfg.Sentiment.Timeout)

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	validate := validator.New()

	authService := auth.NewService(auth.NewPgxRepository(pool), issuer)
	authHandlers := auth.NewHandlers(authService, validate)

	userService := users.NewService(users.NewPgxRepository(pool))
	userHandlers := users.NewHandlers(userService, validate)

	productService := products.NewService(products.NewPgxRepository(pool))
	productHandlers := products.NewHandlers(productService, validate)

	reviewService := reviews.NewService(reviews.NewPgxRepository(pool), productService, userService, enricher)
	reviewHandlers := reviews.NewHandlers(reviewService, validate)

	// Background retry of reviews stored without a sentiment label.
	sweeperStopChan := make(chan struct{})
	background.StartSentimentSweeper(pool, enricher, sweeperStopChan)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps the error body in the standard JSON shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/username/{username}", userHandlers.HandleGetByUsername())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(verifier))
			r.Get("/{userID}", userHandlers.HandleGetByID())
			r.Get("/email/{email}", userHandlers.HandleGetByEmail())
			r.Put("/me", userHandlers.HandleUpdateMe())
			r.Delete("/me", userHandlers.HandleDeleteMe())
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		// Catalog reads are public.
		r.Get("/", productHandlers.HandleList())
		r.Get("/{productID}", productHandlers.HandleGet())
		r.Get("/{productID}/reviews", reviewHandlers.HandleListByProduct())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(verifier))
			r.Post("/", productHandlers.HandleCreate())
			r.Put("/{productID}", productHandlers.HandleUpdate())
			r.Delete("/{productID}", productHandlers.HandleDelete())
			r.Post("/{productID}/reviews", reviewHandlers.HandleCreate())
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/{reviewID}", reviewHandlers.HandleGet())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(verifier))
			r.Put("/{reviewID}", reviewHandlers.HandleUpdate())
			r.Delete("/{reviewID}", reviewHandlers.HandleDelete())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(sweeperStopChan)

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError mirrors the handlers' error encoding for the panic recovery
// middleware, which cannot depend on the feature packages.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
