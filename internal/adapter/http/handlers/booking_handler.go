package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alx_travel_app/internal/adapter/http/dto/request"
	"alx_travel_app/internal/adapter/http/dto/response"
	"alx_travel_app/internal/adapter/http/middleware"
	"alx_travel_app/internal/usecase"
)

// BookingHandler handles HTTP requests for the caller's bookings.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

// Create godoc
// @Summary   Reserve a listing
// @Tags      bookings
// @Accept    json
// @Produce   json
// @Param     body  body  request.BookingRequest  true  "Booking"
// @Success   201  {object}  response.BookingResponse
// @Failure   400  {object}  pkg.HTTPError
// @Failure   409  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var payload request.BookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	in, err := payload.ToInput()
	if err != nil {
		writeError(c, err)
		return
	}

	requester := middleware.RequesterFrom(c)
	booking, err := h.usecase.Create(c.Request.Context(), in, requester)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "[booking][handler] create failed", "listing_id", in.ListingID, "user_id", requester.ID, "err", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromBooking(booking))
}

// List godoc
// @Summary   The caller's bookings
// @Tags      bookings
// @Produce   json
// @Success   200  {array}  response.BookingResponse
// @Security  Bearer
// @Router    /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.usecase.ListByUser(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBookings(bookings))
}

// GetByID godoc
// @Summary   Get one of the caller's bookings
// @Tags      bookings
// @Produce   json
// @Param     id  path  string  true  "Booking ID"
// @Success   200  {object}  response.BookingResponse
// @Failure   404  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	booking, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(booking))
}
