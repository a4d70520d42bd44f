package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/knexpress/dev-kn-system-sub001/internal/config"
	h "github.com/knexpress/dev-kn-system-sub001/internal/http/handlers"
	"github.com/knexpress/dev-kn-system-sub001/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)
	h.InitResolvers()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Public tracking lookup
		api.GET("/billing-requests/track/:code", h.TrackBillingRequest)

		// Everything below requires a signed-in back-office user.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(h.JWTSecret()))

		bookings := protected.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/review", h.ReviewBooking)
		bookings.POST("/:id/convert",
			middleware.RequireRoles("admin", "staff"), h.ConvertBooking)

		billing := protected.Group("/billing-requests")
		billing.GET("", h.ListBillingRequests)
		billing.GET("/:id", h.GetBillingRequest)
		billing.GET("/:id/invoice", h.DownloadInvoice)
	}

	return r
}
