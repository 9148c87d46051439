package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alx_travel_app/internal/adapter/http/dto/request"
	"alx_travel_app/internal/domain/pricing"
	"alx_travel_app/internal/usecase"
	"alx_travel_app/pkg"
)

var errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// mapUseCaseError translates use-case sentinels into the HTTP envelope.
func mapUseCaseError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrRequesterRequired):
		return pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)

	case errors.Is(err, usecase.ErrListingNotFound):
		return pkg.NewDomainErrorSimple("LISTING_NOT_FOUND", "Listing not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)

	case errors.Is(err, usecase.ErrListingForbidden), errors.Is(err, usecase.ErrBookingForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "You do not have access to this resource", http.StatusForbidden)

	case errors.Is(err, pricing.ErrInvalidDateRange):
		return pkg.NewDomainErrorSimple("INVALID_DATE_RANGE", "check_out must be after check_in", http.StatusBadRequest)
	case errors.Is(err, request.ErrInvalidDate):
		return pkg.NewDomainErrorSimple("INVALID_DATE_RANGE", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidGuestCount):
		return pkg.NewDomainErrorSimple("INVALID_GUEST_COUNT", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidListing), errors.Is(err, usecase.ErrInvalidImage):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidListingID), errors.Is(err, usecase.ErrInvalidBookingID), errors.Is(err, pricing.ErrNegativeRate):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

	case errors.Is(err, usecase.ErrListingUnavailable):
		return pkg.NewDomainErrorSimple("LISTING_UNAVAILABLE", "Listing is not available", http.StatusConflict)
	case errors.Is(err, usecase.ErrBookingAlreadyPaid):
		return pkg.NewDomainErrorSimple("BOOKING_ALREADY_PAID", "Booking is already paid", http.StatusConflict)
	case errors.Is(err, usecase.ErrBookingCancelled):
		return pkg.NewDomainErrorSimple("BOOKING_CANCELLED", "Booking is cancelled", http.StatusConflict)

	case errors.Is(err, usecase.ErrPaymentGatewayRejected):
		return pkg.NewDomainError("PAYMENT_FAILED", "Payment provider rejected the transaction", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrPaymentVerificationFailed):
		return pkg.NewDomainError("PAYMENT_FAILED", "Payment could not be verified", err, http.StatusPaymentRequired)
	case errors.Is(err, usecase.ErrPaymentGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable, try again later", err, http.StatusServiceUnavailable).WithRetryable()
	case errors.Is(err, usecase.ErrImageStorageNotSet):
		return pkg.NewDomainError("IMAGE_STORAGE_UNAVAILABLE", "Image storage is not configured", err, http.StatusServiceUnavailable)

	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, err error) {
	appErr := mapUseCaseError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
