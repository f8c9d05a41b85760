// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/renterra/go-rental-backend/docs"
	"github.com/renterra/go-rental-backend/internal/auth"
	"github.com/renterra/go-rental-backend/internal/config"
	"github.com/renterra/go-rental-backend/internal/http/handlers"
	"github.com/renterra/go-rental-backend/internal/http/middleware"
	"github.com/renterra/go-rental-backend/internal/payments"
	"github.com/renterra/go-rental-backend/internal/repo"
	"github.com/renterra/go-rental-backend/internal/search"
	"github.com/renterra/go-rental-backend/internal/services"
	"github.com/renterra/go-rental-backend/internal/storage"
)

// Deps carries everything RegisterRoutes needs beyond the engine itself.
type Deps struct {
	DB      *gorm.DB
	Store   *storage.Store
	Index   *search.ProductIndex
	Issuer  *auth.Issuer
	Gateway payments.Gateway
	Cfg     config.Config
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, compression, CORS and security headers, health and metrics
// endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps) (*services.ProductService, error) {
	cfg := deps.Cfg
	db := deps.DB
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (8 MiB; listing images are the largest payload)
	r.Use(limitBody(8 << 20))

	// 6) Compress responses; skip the document download route so Content-Length
	// survives for PDF streaming.
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`.*/download$`, `^/files/.*`})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
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
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
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

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	}

	// Uploaded listing images
	r.Static("/files", deps.Store.Root())
	handlers.SetUploads(deps.Store)

	// Dependency injection: services ← repo/db/store/index/gateway
	authSvc := &services.AuthService{DB: db, Tokens: deps.Issuer}
	userSvc := &services.UserService{DB: db}
	productSvc := &services.ProductService{DB: db, Index: deps.Index}
	requestSvc := &services.RequestService{DB: db}
	agreeSvc := &services.AgreementService{DB: db, Docs: deps.Store}
	paySvc, err := services.NewPaymentService(db, deps.Gateway, cfg.Payment.Currency, cfg.Payment.FXRate)
	if err != nil {
		return nil, err
	}
	reviewSvc := &services.ReviewService{DB: db}
	notifSvc := &services.NotificationService{DB: db}
	chatSvc := &services.ChatService{DB: db, MaxBodyRunes: 4000}

	h := handlers.New(authSvc, userSvc, productSvc, requestSvc, agreeSvc, paySvc, reviewSvc, notifSvc, chatSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Unauthenticated surface
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/products", h.ListProducts)
		api.GET("/products/search", h.SearchProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/reviews", h.ListProductReviews)
		api.GET("/users/:id/reviews", h.ListOwnerReviews)
	}

	authed := groupWithPrefix(r, apiBase)
	authed.Use(middleware.RequireAuth(deps.Issuer))
	{
		// Products (mutations)
		authed.POST("/products", h.CreateProduct)
		authed.PUT("/products/:id", h.UpdateProduct)
		authed.DELETE("/products/:id", h.DeleteProduct)

		// Rental requests
		authed.POST("/rental-requests", h.CreateRentalRequest)
		authed.GET("/rental-requests", h.ListRentalRequests)
		authed.GET("/rental-requests/:id", h.GetRentalRequest)
		authed.PUT("/rental-requests/:id/status", h.UpdateRentalRequestStatus)
		authed.DELETE("/rental-requests/:id", h.CancelRentalRequest)

		// Agreements
		authed.POST("/agreements", h.GenerateAgreement)
		authed.GET("/agreements", h.ListAgreements)
		authed.GET("/agreements/request/:requestId", h.GetAgreementByRequest)
		authed.GET("/agreements/:id", h.GetAgreement)
		authed.PUT("/agreements/:id/complete", h.CompleteAgreement)
		authed.GET("/agreements/:id/download", h.DownloadAgreement)
		authed.GET("/agreements/:id/payment", h.GetAgreementPayment)

		// Payments
		authed.POST("/payments/intent", h.CreatePaymentIntent)
		authed.GET("/payments/verify", h.VerifyPayment)

		// Reviews
		authed.POST("/reviews", h.CreateReview)
		authed.GET("/reviews", h.ListMyReviews)
		authed.DELETE("/reviews/:id", h.DeleteReview)

		// Notifications
		authed.GET("/notifications", h.ListNotifications)
		authed.GET("/notifications/unseen-count", h.UnseenNotificationCount)
		authed.PUT("/notifications/seen", h.MarkAllNotificationsSeen)
		authed.PUT("/notifications/:id/seen", h.MarkNotificationSeen)

		// Chat
		authed.POST("/chat/messages", h.SendChatMessage)
		authed.GET("/chat/conversations", h.ListConversations)
		authed.GET("/chat/conversations/:id/messages", h.ListChatMessages)

		// Users
		authed.GET("/users/me", h.GetMyProfile)
		authed.PUT("/users/me", h.UpdateMyProfile)
		authed.GET("/users/:id", h.GetUserProfile)
		authed.GET("/users/:id/products", h.ListOwnerProducts)
	}

	return productSvc, nil
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
