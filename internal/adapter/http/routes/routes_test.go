package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"

	"alx_travel_app/internal/adapter/http/handlers"
	"alx_travel_app/internal/adapter/http/handlers/mocks"
	"alx_travel_app/internal/adapter/http/middleware"
	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/infrastructure/config"
	"alx_travel_app/internal/usecase"
)

const testSecret = "routes-secret"

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	claims := middleware.Claims{
		Email: sub + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

type routerMocks struct {
	listing *mocks.MockIListingUseCase
	booking *mocks.MockIBookingUseCase
	payment *mocks.MockIPaymentUseCase
}

func newTestRouter(t *testing.T) (*gin.Engine, routerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := routerMocks{
		listing: mocks.NewMockIListingUseCase(ctrl),
		booking: mocks.NewMockIBookingUseCase(ctrl),
		payment: mocks.NewMockIPaymentUseCase(ctrl),
	}
	r := NewRouter(config.Config{Env: "test", JWTSecret: testSecret}, Handlers{
		Listing: handlers.NewListingHandler(m.listing),
		Booking: handlers.NewBookingHandler(m.booking),
		Payment: handlers.NewPaymentHandler(m.payment),
	})
	return r, m
}

func TestRouter_Ping(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	if w.Code != http.StatusOK || w.Body.String() != `{"message":"pong"}` {
		t.Fatalf("expected pong, got %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_AuthenticatedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/listings"},
		{http.MethodPut, "/v1/listings/l-1"},
		{http.MethodDelete, "/v1/listings/l-1"},
		{http.MethodPut, "/v1/listings/l-1/image"},
		{http.MethodPost, "/v1/bookings"},
		{http.MethodGet, "/v1/bookings"},
		{http.MethodGet, "/v1/bookings/b-1"},
		{http.MethodPost, "/v1/bookings/b-1/payments"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRouter_BearerTokenReachesHandler(t *testing.T) {
	r, m := newTestRouter(t)
	m.booking.EXPECT().ListByUser(gomock.Any(), entities.Requester{ID: "u-1", Email: "u-1@example.com"}).
		Return([]entities.Booking{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, m := newTestRouter(t)
	m.listing.EXPECT().Search(gomock.Any(), "", 1).Return(usecase.ListingPage{Page: 1, PageSize: usecase.ListingPageSize}, nil)
	m.payment.EXPECT().Verify(gomock.Any(), "tx-1").Return(usecase.PaymentVerification{}, usecase.ErrPaymentNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/listings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for listing search, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/payments/verify/tx-1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown reference, got %d", w.Code)
	}
}
