package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	_ "alx_travel_app/docs"
	"alx_travel_app/internal/adapter/http/handlers"
	"alx_travel_app/internal/adapter/http/middleware"
	"alx_travel_app/internal/infrastructure/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Listing *handlers.ListingHandler
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
}

// NewServer builds the HTTP server for the API.
func NewServer(cfg config.Config, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter wires middlewares, swagger and every /v1 route.
func NewRouter(cfg config.Config, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	slog.Info("[http][router] gin initialized", "mode", mode)

	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.RequireRequester(cfg.JWTSecret)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	if h.Listing != nil {
		addListingRoutes(v1, h.Listing, auth)
	}
	if h.Booking != nil {
		addBookingRoutes(v1, h.Booking, auth)
	}
	if h.Payment != nil {
		addPaymentRoutes(v1, h.Payment, auth)
	}
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("[http][router] recovered from panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "debug":
		gin.SetMode(gin.DebugMode)
	case "test", "testing":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	return gin.Mode()
}
