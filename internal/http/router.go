// Package httpapi wires the HTTP transport (Gin) to the Q&A services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, optional bearer identity, logging/redaction,
// panic recovery, metrics, CORS, security headers, idempotency, and rate
// limiting.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-qa-backend/docs"
	"github.com/tbourn/go-qa-backend/internal/auth"
	"github.com/tbourn/go-qa-backend/internal/config"
	"github.com/tbourn/go-qa-backend/internal/http/handlers"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/repo"
	"github.com/tbourn/go-qa-backend/internal/services"
	"github.com/tbourn/go-qa-backend/internal/store"
)

// defaultMethods is the cross-origin method allow-list when none is configured.
var defaultMethods = []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. Questions and answers live in st; db backs the idempotency ledger;
// signer issues tokens at /login and verifies bearer tokens on every request.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve the bearer subject (anonymous otherwise)
//  4. RedactingLogger (or Logger): structured access logs
//  5. Recovery: capture panics after logger
//  6. Security headers
//  7. Body size limiter
//  8. Metrics
//  9. CORS guard (403 envelope) then gin-contrib/cors
//  10. Idempotency validator (before rate limiter to allow bypass on replay)
//  11. Rate limiter (per client IP, bypass on replay)
func RegisterRoutes(r *gin.Engine, st *store.Store, db *gorm.DB, signer *auth.HMACSigner, cfg config.Config) {
	// Unknown methods on known paths fall through to NoRoute (404).
	r.HandleMethodNotAllowed = false

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Bearer identity, never rejects
	r.Use(middleware.Identity(signer))

	// 4) Structured logging, with redaction unless disabled
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 7) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) CORS posture
	methods := cfg.CORS.AllowedMethods
	if len(methods) == 0 {
		methods = defaultMethods
	}
	headers := corsHeaders(cfg.CORS.AllowedHeaders)
	r.Use(middleware.CORSGuard(middleware.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
	}))
	cc := cors.Config{
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"X-Request-ID", middleware.HeaderIdempotencyReplayed, "Retry-After"},
		AllowCredentials: false, // must remain false with AllowAllOrigins
		MaxAge:           12 * time.Hour,
	}
	if allowAnyOrigin(cfg.CORS.AllowedOrigins) {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(cc))

	// 10) Idempotency validation (before rate limiting)
	ledger := repo.NewLedger(db, cfg.IdempotencyTTL)
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, ledger.Lookup))

	// 11) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// Fallback for unknown routes and methods
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← store/signer
	qSvc := services.NewQuestionService(st)
	qSvc.ClampPagination = cfg.PaginationClamp
	aSvc := services.NewAnswerService(st)
	authSvc := services.NewAuthService(signer, cfg.Auth.Password)
	if cfg.Auth.TokenTTL > 0 {
		authSvc.TTL = cfg.Auth.TokenTTL
	}
	h := handlers.New(qSvc, aSvc, authSvc, ledger)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Questions
		api.GET("/questions", h.ListQuestions)
		api.POST("/questions", h.AddQuestion)
		api.PUT("/questions/:id", h.UpdateQuestion)
		api.DELETE("/questions/:id", h.DeleteQuestion)

		// Answers
		api.POST("/comments", h.AddAnswer)

		// Auth
		api.POST("/login", h.Login)
	}
}

// corsHeaders returns the configured request headers plus the ones the API
// itself reads, without duplicates (case-insensitive).
func corsHeaders(configured []string) []string {
	out := make([]string, 0, len(configured)+3)
	seen := make(map[string]struct{}, len(configured)+3)
	for _, h := range append(append([]string{}, configured...),
		"Authorization", middleware.HeaderIdempotencyKey, "X-Request-ID") {
		k := strings.ToLower(strings.TrimSpace(h))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, strings.TrimSpace(h))
	}
	return out
}

func allowAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
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
