package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"alx_travel_app/internal/adapter/http/dto/request"
	"alx_travel_app/internal/domain/pricing"
	"alx_travel_app/internal/usecase"
)

func TestMapUseCaseError(t *testing.T) {
	cases := []struct {
		err       error
		status    int
		code      string
		retryable bool
	}{
		{usecase.ErrRequesterRequired, http.StatusUnauthorized, "UNAUTHORIZED", false},
		{usecase.ErrListingNotFound, http.StatusNotFound, "LISTING_NOT_FOUND", false},
		{usecase.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND", false},
		{fmt.Errorf("%w: reference was superseded", usecase.ErrPaymentNotFound), http.StatusNotFound, "PAYMENT_NOT_FOUND", false},
		{usecase.ErrListingForbidden, http.StatusForbidden, "FORBIDDEN", false},
		{usecase.ErrBookingForbidden, http.StatusForbidden, "FORBIDDEN", false},
		{pricing.ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE", false},
		{request.ErrInvalidDate, http.StatusBadRequest, "INVALID_DATE_RANGE", false},
		{usecase.ErrInvalidGuestCount, http.StatusBadRequest, "INVALID_GUEST_COUNT", false},
		{fmt.Errorf("%w: title is required", usecase.ErrInvalidListing), http.StatusBadRequest, "INVALID_REQUEST", false},
		{usecase.ErrInvalidBookingID, http.StatusBadRequest, "INVALID_REQUEST", false},
		{pricing.ErrNegativeRate, http.StatusBadRequest, "INVALID_REQUEST", false},
		{usecase.ErrListingUnavailable, http.StatusConflict, "LISTING_UNAVAILABLE", false},
		{usecase.ErrBookingAlreadyPaid, http.StatusConflict, "BOOKING_ALREADY_PAID", false},
		{usecase.ErrBookingCancelled, http.StatusConflict, "BOOKING_CANCELLED", false},
		{usecase.ErrPaymentGatewayRejected, http.StatusBadGateway, "PAYMENT_FAILED", false},
		{usecase.ErrPaymentVerificationFailed, http.StatusPaymentRequired, "PAYMENT_FAILED", false},
		{usecase.ErrPaymentGatewayUnavailable, http.StatusServiceUnavailable, "PAYMENT_PROVIDER_UNAVAILABLE", true},
		{usecase.ErrImageStorageNotSet, http.StatusServiceUnavailable, "IMAGE_STORAGE_UNAVAILABLE", false},
		{errors.New("dynamodb: throttled"), http.StatusInternalServerError, "INTERNAL_ERROR", false},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			got := mapUseCaseError(tc.err)
			if got.HTTPStatus != tc.status || got.Code != tc.code || got.Retryable != tc.retryable {
				t.Fatalf("expected %d/%s/%v, got %d/%s/%v", tc.status, tc.code, tc.retryable, got.HTTPStatus, got.Code, got.Retryable)
			}
		})
	}
}
