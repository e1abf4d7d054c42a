package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-service/internal/auth/service"
	bannedtokenrepo "auth-service/internal/bannedtoken/repository"
	"auth-service/internal/cache"
	"auth-service/internal/config"
	"auth-service/internal/db"
	"auth-service/internal/email"
	"auth-service/internal/security"
	"auth-service/internal/server"
	"auth-service/internal/telemetry/otel"
	twofarepo "auth-service/internal/twofa/repository"
	userrepo "auth-service/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, otel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "auth-service",
		Insecure:    cfg.Env != "production",
	})
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	hasher, err := security.NewHasher(security.HasherParams{
		Memory:      cfg.Argon2Memory,
		Time:        cfg.Argon2Time,
		Parallelism: cfg.Argon2Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}

	tokens, err := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.TokenTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var users service.UserStore
	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		users = userrepo.NewPostgresRepository(pool, hasher)
		log.Println("user store: postgres")
	} else {
		users = userrepo.NewMemoryRepository(hasher)
		log.Println("user store: in-memory")
	}

	var (
		challenges   service.TwoFACodeStore
		bannedTokens service.BannedTokenStore
	)
	if cfg.RedisAddr != "" {
		client, err := cache.Open(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		challenges = twofarepo.NewRedisRepository(client, cfg.TwoFATTL())
		bannedTokens = bannedtokenrepo.NewRedisRepository(client, cfg.TokenTTL())
		log.Println("challenge and banned-token stores: redis")
	} else {
		challenges = twofarepo.NewMemoryRepository()
		bannedTokens = bannedtokenrepo.NewMemoryRepository()
		log.Println("challenge and banned-token stores: in-memory")
	}

	auth := service.NewAuthService(users, challenges, bannedTokens, tokens, &email.MockClient{})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(auth).Handler(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
