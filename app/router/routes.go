// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/app/handlers"
	"github.com/acelion55/finonest/app/middleware"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app            *fiber.App
	allowedOrigins []string

	authHandler    handlers.AuthHandlerInterface
	appHandler     handlers.ApplicationHandlerInterface
	catalogHandler handlers.CatalogHandlerInterface
	linkHandler    handlers.ProductLinkHandlerInterface
	payoutHandler  handlers.PayoutHandlerInterface
	authMiddleware *middleware.AuthMiddleware
}

// applicationLines maps a product line to its route prefix and submit path.
// Offline leads use /create while the online lines use /apply.
var applicationLines = []struct {
	productType string
	prefix      string
	submitPath  string
}{
	{models.ProductTypeCreditCard, "/creditcard-applications", "/apply"},
	{models.ProductTypePersonalLoan, "/personal-loan-applications", "/apply"},
	{models.ProductTypeCarLoan, "/car-loan-applications", "/apply"},
	{models.ProductTypeBusinessLoan, "/business-loan-applications", "/apply"},
	{models.ProductTypeOffline, "/offline-applications", "/create"},
}

// catalogRoutes maps a catalog to its route prefix
var catalogRoutes = []struct {
	catalogType string
	prefix      string
}{
	{models.CatalogTypeCreditCard, "/creditcards"},
	{models.CatalogTypePersonalLoan, "/personal-loans"},
	{models.CatalogTypeCarLoan, "/car-loans"},
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	allowedOrigins []string,
	authHandler handlers.AuthHandlerInterface,
	appHandler handlers.ApplicationHandlerInterface,
	catalogHandler handlers.CatalogHandlerInterface,
	linkHandler handlers.ProductLinkHandlerInterface,
	payoutHandler handlers.PayoutHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Finonest API",
		ServerHeader: "Finonest",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:            app,
		allowedOrigins: allowedOrigins,
		authHandler:    authHandler,
		appHandler:     appHandler,
		catalogHandler: catalogHandler,
		linkHandler:    linkHandler,
		payoutHandler:  payoutHandler,
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the /api group
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api")

	// Health check route (no rate limiting)
	api.Get("/health", r.authHandler.Health)

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.authHandler.Signup)
	auth.Post("/login", r.authHandler.Login)
	auth.Get("/me", r.authHandler.Me, r.authMiddleware.Authenticate())
	auth.Put("/profile", r.authHandler.UpdateProfile, r.authMiddleware.Authenticate())
	auth.Post("/kyc/challenge", r.authHandler.IssueKYCChallenge, r.authMiddleware.Authenticate())
	auth.Post("/kyc/verify", r.authHandler.VerifyKYCChallenge, r.authMiddleware.Authenticate())

	// Lead application routes, all authenticated
	for _, line := range applicationLines {
		grp := api.Group(line.prefix, r.authMiddleware.Authenticate())
		grp.Get("/all", r.appHandler.ListAll(line.productType))
		grp.Get("/my", r.appHandler.ListMine(line.productType))
		grp.Post(line.submitPath, r.appHandler.Create(line.productType))
		grp.Get("/:id", r.appHandler.Get(line.productType))
		grp.Put("/:id", r.appHandler.Update(line.productType))
		grp.Delete("/:id", r.appHandler.Delete(line.productType))
	}

	// Catalog routes. Admin mutations are unauthenticated, preserved as a
	// documented gap for the operator frontend.
	for _, cat := range catalogRoutes {
		grp := api.Group(cat.prefix)
		grp.Get("/all", r.catalogHandler.ListAll(cat.catalogType))
		grp.Get("/filter/banks", r.catalogHandler.ListBanks(cat.catalogType))
		grp.Get("/filter/bybank/:bank", r.catalogHandler.ListByBank(cat.catalogType))
		grp.Post("/create", r.catalogHandler.Create(cat.catalogType))
		grp.Get("/:id", r.catalogHandler.Get(cat.catalogType))
		grp.Put("/:id", r.catalogHandler.Update(cat.catalogType))
		grp.Delete("/:id", r.catalogHandler.Delete(cat.catalogType))
	}

	// Referral product link routes
	links := api.Group("/product-links")
	links.Get("/all", r.linkHandler.ListAll)
	links.Post("/create", r.linkHandler.Create)
	links.Get("/banks/:productType", r.linkHandler.ListBanks)
	links.Get("/products/:productType/:bank", r.linkHandler.ListProducts)
	links.Get("/referral/:referralId", r.linkHandler.ListByReferral)
	links.Put("/:id", r.linkHandler.Update)
	links.Delete("/:id", r.linkHandler.Delete)
	links.Get("/:code", r.linkHandler.Resolve)

	// Payout ledger routes
	payouts := api.Group("/payouts")
	payouts.Get("/all", r.payoutHandler.ListAll)
	payouts.Post("/create", r.payoutHandler.Create)
	payouts.Get("/export", r.payoutHandler.Export)
	payouts.Get("/referral/:referralId", r.payoutHandler.ListByReferral)
	payouts.Get("/:id", r.payoutHandler.Get)
	payouts.Put("/:id", r.payoutHandler.Update)
	payouts.Delete("/:id", r.payoutHandler.Delete)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// CORS middleware
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"X-Device-Id",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Recovery middleware with panic logging
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
