package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"alx_travel_app/internal/adapter/http/handlers/mocks"
	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/money"
	"alx_travel_app/internal/domain/pricing"
	"alx_travel_app/internal/usecase"
)

func TestBookingHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *BookingHandler) *gin.Engine {
		r := gin.New()
		r.POST("/v1/bookings", withRequester(testGuest), h.Create)
		return r
	}
	post := func(r *gin.Engine, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		w := post(newRouter(NewBookingHandler(mocks.NewMockIBookingUseCase(ctrl))), "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad date format", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		w := post(newRouter(NewBookingHandler(mocks.NewMockIBookingUseCase(ctrl))), `{"listing_id":"l-1","check_in":"1/1/2024","check_out":"2024-01-04"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("mapped use case errors", func(t *testing.T) {
		cases := []struct {
			err  error
			want int
			code string
		}{
			{err: pricing.ErrInvalidDateRange, want: http.StatusBadRequest, code: "INVALID_DATE_RANGE"},
			{err: usecase.ErrInvalidGuestCount, want: http.StatusBadRequest, code: "INVALID_GUEST_COUNT"},
			{err: usecase.ErrListingNotFound, want: http.StatusNotFound, code: "LISTING_NOT_FOUND"},
			{err: usecase.ErrListingUnavailable, want: http.StatusConflict, code: "LISTING_UNAVAILABLE"},
			{err: usecase.ErrRequesterRequired, want: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		}
		for _, tc := range cases {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIBookingUseCase(ctrl)
			uc.EXPECT().Create(gomock.Any(), gomock.Any(), testGuest).Return(entities.Booking{}, tc.err)

			w := post(newRouter(NewBookingHandler(uc)), `{"listing_id":"l-1","check_in":"2024-01-04","check_out":"2024-01-01","guests":2}`)
			if w.Code != tc.want {
				t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
			}
			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["code"] != tc.code {
				t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, w.Body.String())
			}
			ctrl.Finish()
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		want := usecase.CreateBookingInput{
			ListingID: "l-1",
			CheckIn:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			Guests:    2,
		}
		uc.EXPECT().Create(gomock.Any(), want, testGuest).Return(entities.Booking{
			ID:         "b-1",
			Reference:  "ref-1",
			ListingID:  "l-1",
			CheckIn:    want.CheckIn,
			CheckOut:   want.CheckOut,
			Guests:     2,
			TotalPrice: money.Must(30000, "ETB"),
			Status:     entities.BookingStatusPending,
		}, nil)

		w := post(newRouter(NewBookingHandler(uc)), `{"listing_id":"l-1","check_in":"2024-01-01","check_out":"2024-01-04","guests":2}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["total_price"] != "300.00" || body["status"] != "pending" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestBookingHandler_ListAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIBookingUseCase(ctrl)
	h := NewBookingHandler(uc)

	r := gin.New()
	r.GET("/v1/bookings", withRequester(testGuest), h.List)
	r.GET("/v1/bookings/:id", withRequester(testGuest), h.GetByID)

	uc.EXPECT().ListByUser(gomock.Any(), testGuest).Return([]entities.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil)
	uc.EXPECT().GetByID(gomock.Any(), "b-9", testGuest).Return(entities.Booking{}, usecase.ErrBookingForbidden)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))
	var list []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/bookings/b-9", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
