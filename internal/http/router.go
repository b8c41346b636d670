// Package httpapi wires the HTTP transport (Gin) to the fulfillment services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, authentication, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - The gateway webhook is authenticated by its signature, not a bearer token
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/config"
	"github.com/tbourn/go-fulfillment-backend/internal/http/handlers"
	"github.com/tbourn/go-fulfillment-backend/internal/http/middleware"
	"github.com/tbourn/go-fulfillment-backend/internal/payment"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
	"github.com/tbourn/go-fulfillment-backend/internal/services"
)

// idempotencyStore adapts the repository free functions to
// handlers.IdempotencyStore, stamping new records with the configured TTL.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// Find proxies repo.GetIdempotency; a missing or expired record is not an error.
func (s idempotencyStore) Find(ctx context.Context, userID, scope, key string) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, scope, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Save proxies repo.CreateIdempotency. A concurrent writer that won the race
// already recorded the same outcome, so duplicates are swallowed.
func (s idempotencyStore) Save(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// lookup feeds middleware.IdempotencyValidator. Lookup errors never block
// the request; the handler re-checks before doing any work.
func (s idempotencyStore) lookup(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
	if err != nil || rec == nil {
		return false, nil
	}
	return true, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, health, metrics and docs endpoints, and then mounts the versioned
// public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip
//  6. Metrics
//  7. CORS and Security headers
//
// Inside the authenticated group:
//  8. Auth: bearer token (or X-User-ID in development)
//  9. Idempotency validator on POST /shipments (before the limiter so replays bypass it)
//  10. Rate limiter (per user/IP)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderUserID},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and compressed responses
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization",
		"If-None-Match", middleware.HeaderUserID, middleware.HeaderIdempotencyKey,
	}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", handlers.HeaderReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStore:       false,
		EnablePolicy:  true,
		ExposeHeaders: []string{"ETag", handlers.HeaderReplayed},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/verifier
	entSvc := &services.EntitlementService{DB: db}
	paySvc := &services.PaymentService{
		DB:       db,
		Verifier: payment.NewVerifier(cfg.Gateway.ServerKey),
		Granter:  entSvc,
	}
	shipSvc := &services.ShipmentService{DB: db}

	idem := idempotencyStore{db: db, ttl: cfg.IdempotencyTTL}
	h := handlers.New(paySvc, shipSvc, entSvc, handlers.Options{
		Idempotency:   idem,
		DefaultLocale: parseLocale(cfg.DefaultLocale),
	})

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)

	// Gateway webhook: signature-verified, never rate limited so retries land.
	api.POST("/payments/notifications", noStore(), h.PaymentNotification)

	// Authenticated API
	authed := api.Group("")
	authed.Use(middleware.Auth(middleware.AuthOptions{
		Secret:         []byte(cfg.Auth.JWTSecret),
		Issuer:         cfg.Auth.JWTIssuer,
		HeaderFallback: cfg.Auth.HeaderFallback,
	}))
	idemCheck := middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  handlers.ScopeCreateShipments,
		},
		idem.lookup,
	)
	limit := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).Handler()
	{
		// Payments
		authed.POST("/payments/confirm", limit, noStore(), h.ConfirmPayment)

		// Shipments (idempotency check first so replays bypass the limiter)
		authed.POST("/shipments", idemCheck, limit, h.CreateShipments)
		authed.GET("/shipments", limit, h.ListShipments)
		authed.GET("/shipments/:id", limit, h.GetShipment)

		// Digital library
		authed.GET("/entitlements", limit, h.ListEntitlements)
	}
}

// noStore marks payment responses as uncacheable.
func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// parseLocale returns the configured default locale, or English when the
// value is not a valid tag.
func parseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
