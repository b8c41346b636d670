// Command server runs the bookstore fulfillment API.
//
// Flags:
//
//	-issue-token <subject>   print a signed development JWT and exit
//	-seed-catalog <file>     upsert sellers, products and bundles from JSON and exit
//
// @title                      Bookstore Fulfillment API
// @version                    1.0
// @description                Payment confirmation, entitlement grants and per-seller shipments.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/docs"
	"github.com/tbourn/go-fulfillment-backend/internal/config"
	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	httpapi "github.com/tbourn/go-fulfillment-backend/internal/http"
	"github.com/tbourn/go-fulfillment-backend/internal/http/middleware"
	"github.com/tbourn/go-fulfillment-backend/internal/observability"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
	"github.com/tbourn/go-fulfillment-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// catalogFile is the JSON shape accepted by -seed-catalog.
type catalogFile struct {
	Sellers  []domain.Seller  `json:"sellers"`
	Products []domain.Product `json:"products"`
	Bundles  []domain.Bundle  `json:"bundles"`
}

func main() {
	issueFor := flag.String("issue-token", "", "print a development JWT for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by -issue-token")
	seedPath := flag.String("seed-catalog", "", "upsert the catalog from this JSON file and exit")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName, ver)

	if *issueFor != "" {
		if err := printToken(cfg.Auth, *issueFor, *tokenTTL); err != nil {
			log.Fatal().Err(err).Msg("issue token")
		}
		return
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("open database")
	}

	if *seedPath != "" {
		if err := seedCatalog(context.Background(), db, *seedPath); err != nil {
			log.Fatal().Err(err).Str("file", *seedPath).Msg("seed catalog")
		}
		log.Info().Str("file", *seedPath).Msg("catalog seeded")
		return
	}

	if err := run(cfg, db, ver); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func openDB(path string) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func run(cfg config.Config, db *gorm.DB, ver string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.Build{Version: ver, Environment: cfg.GinMode})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	if cfg.Gateway.ServerKey == "" {
		log.Warn().Msg("GATEWAY_SERVER_KEY is empty; every gateway notification will be rejected")
	}

	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	docs.SwaggerInfo.Version = ver

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, db, cfg.IdempotencyPurge)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// purgeIdempotency removes expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("rows", n).Msg("idempotency keys purged")
			}
		}
	}
}

func printToken(a config.AuthConfig, subject string, ttl time.Duration) error {
	if a.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	tok, err := middleware.AuthOptions{Secret: []byte(a.JWTSecret), Issuer: a.JWTIssuer}.IssueToken(subject, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, tok)
	return err
}

func seedCatalog(ctx context.Context, db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return repo.UpsertCatalog(ctx, db, f.Sellers, f.Products, f.Bundles)
}
