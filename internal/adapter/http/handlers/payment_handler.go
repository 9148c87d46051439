package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alx_travel_app/internal/adapter/http/dto/response"
	"alx_travel_app/internal/adapter/http/middleware"
	"alx_travel_app/internal/usecase"
)

// PaymentHandler exposes payment initiation and the gateway callback.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// Initiate godoc
// @Summary   Start paying a booking
// @Tags      payments
// @Produce   json
// @Param     id  path  string  true  "Booking ID"
// @Success   201  {object}  response.PaymentInitiationResponse
// @Failure   409  {object}  pkg.HTTPError
// @Failure   502  {object}  pkg.HTTPError
// @Failure   503  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /bookings/{id}/payments [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	bookingID := c.Param("id")
	slog.InfoContext(c.Request.Context(), "[payment][handler] initiate start", "booking_id", bookingID)

	out, err := h.usecase.Initiate(c.Request.Context(), bookingID, middleware.RequesterFrom(c))
	if err != nil {
		slog.WarnContext(c.Request.Context(), "[payment][handler] initiate failed", "booking_id", bookingID, "err", err)
		writeError(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "[payment][handler] initiate success", "booking_id", bookingID, "reference", out.Payment.Reference)

	c.JSON(http.StatusCreated, response.FromPaymentInitiation(out))
}

// Verify godoc
// @Summary  Gateway callback: verify and settle a payment
// @Tags     payments
// @Produce  json
// @Param    reference  path  string  true  "Correlation token"
// @Success  200  {object}  response.PaymentVerificationResponse
// @Failure  402  {object}  response.PaymentVerificationResponse
// @Failure  404  {object}  pkg.HTTPError
// @Failure  503  {object}  pkg.HTTPError
// @Router   /payments/verify/{reference} [get]
// @Router   /payments/verify/{reference} [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	slog.InfoContext(c.Request.Context(), "[payment][handler] verify start", "reference", reference)

	out, err := h.usecase.Verify(c.Request.Context(), reference)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "[payment][handler] verify failed", "reference", reference, "err", err)
		if errors.Is(err, usecase.ErrPaymentVerificationFailed) && out.Payment.BookingID != "" {
			appErr := mapUseCaseError(err)
			body := response.FromPaymentVerification(out)
			httpErr := appErr.ToHTTPError()
			body.Error = &httpErr
			c.JSON(appErr.HTTPStatus, body)
			return
		}
		writeError(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "[payment][handler] verify success", "reference", reference, "status", out.Payment.Status, "already_settled", out.AlreadySettled)

	c.JSON(http.StatusOK, response.FromPaymentVerification(out))
}

// Success godoc
// @Summary  Return page after checkout; read-only
// @Tags     payments
// @Produce  json
// @Param    reference  path  string  true  "Correlation token"
// @Success  200  {object}  response.PaymentVerificationResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /payments/success/{reference} [get]
func (h *PaymentHandler) Success(c *gin.Context) {
	out, err := h.usecase.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentVerification(out))
}
