package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"blogfront/cmd/app"
	"blogfront/internal/config"
	handlers "blogfront/internal/handler"
	"blogfront/internal/middleware"
	"blogfront/internal/service"
)

const purgeInterval = 10 * time.Minute

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Println("JWT_SECRET_KEY is not set, stored tokens are only checked for expiry")
	}

	db, services, sessions := app.App(cfg)
	defer db.CloseDB()

	var health handlers.HealthChecker
	if db != nil {
		health = db
	}

	handler := handlers.NewHandlers(services, sessions, health, cfg)

	handlerChain := middleware.Chain(
		handler.Routes(),
		chimw.RequestID,
		chimw.RealIP,
		middleware.LoggingMiddleware,
		chimw.Recoverer,
		middleware.SecureHeadersMiddleware,
		middleware.VisitorMiddleware(cfg.Session),
		middleware.SessionMiddleware(sessions, cfg.Session),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeViews(ctx, services.Views)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server started on %s", addr)
		log.Printf("API gateway: %s", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

// purgeViews drops view timestamps that can no longer hold back a view.
func purgeViews(ctx context.Context, views service.ViewService) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := views.Purge(ctx)
			if err != nil {
				log.Printf("views: purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("views: purged %d entries", n)
			}
		}
	}
}
