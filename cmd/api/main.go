package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-api-sql/internal/config"
	jwtinfra "github.com/go-api-sql/internal/infrastructure/jwt"
	"github.com/go-api-sql/internal/infrastructure/postgres"
	"github.com/go-api-sql/internal/infrastructure/totp"
	transporthttp "github.com/go-api-sql/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.UsingFallbackSecret() {
		log.Println("WARN: JWT_SECRET not set, using the insecure built-in default")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	// Bootstrap the fixed schema (creates tables if they don't exist).
	if err := postgres.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    postgres.NewUserRepo(pool),
		OrderRepo:   postgres.NewOrderRepo(pool),
		JWTProvider: jwtinfra.NewProvider(cfg),
		TOTPManager: totp.NewManager(cfg.TOTPIssuer),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
