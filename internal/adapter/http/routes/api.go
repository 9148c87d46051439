package routes

import (
	"alx_travel_app/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPing     = "/ping"
	PathListings = "/listings"
	PathUsers    = "/users"
	PathBookings = "/bookings"
	PathPayments = "/payments"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, handlers.Ping)
}

func addListingRoutes(rg *gin.RouterGroup, h *handlers.ListingHandler, auth gin.HandlerFunc) {
	listings := rg.Group(PathListings)
	{
		listings.GET("", h.Search)
		listings.GET("/:id", h.GetByID)
		listings.POST("", auth, h.Create)
		listings.PUT("/:id", auth, h.Update)
		listings.DELETE("/:id", auth, h.Delete)
		listings.PUT("/:id/image", auth, h.UploadImage)
	}

	rg.GET(PathUsers+"/:user_id/listings", h.ListByOwner)
}

func addBookingRoutes(rg *gin.RouterGroup, bh *handlers.BookingHandler, auth gin.HandlerFunc) {
	bookings := rg.Group(PathBookings, auth)
	{
		bookings.POST("", bh.Create)
		bookings.GET("", bh.List)
		bookings.GET("/:id", bh.GetByID)
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, ph *handlers.PaymentHandler, auth gin.HandlerFunc) {
	rg.POST(PathBookings+"/:id/payments", auth, ph.Initiate)

	payments := rg.Group(PathPayments)
	{
		// Gateway callbacks carry no bearer token.
		payments.GET("/verify/:reference", ph.Verify)
		payments.POST("/verify/:reference", ph.Verify)
		payments.GET("/success/:reference", ph.Success)
	}
}
