package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/pkg"
)

const requesterKey = "requester"

var errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid bearer token", http.StatusUnauthorized)

// Claims are the identity claims issued by the user service.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// RequireRequester rejects requests without a valid HS256 bearer token and
// stores the resulting entities.Requester in the gin context.
func RequireRequester(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		requester, err := parseBearer(c.GetHeader("Authorization"), key)
		if err != nil {
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		c.Set(requesterKey, requester)
		c.Next()
	}
}

// RequesterFrom returns the requester set by RequireRequester, or a zero
// Requester on unauthenticated routes.
func RequesterFrom(c *gin.Context) entities.Requester {
	v, ok := c.Get(requesterKey)
	if !ok {
		return entities.Requester{}
	}
	r, _ := v.(entities.Requester)
	return r
}

func parseBearer(header string, key []byte) (entities.Requester, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return entities.Requester{}, errors.New("missing bearer token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entities.Requester{}, err
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return entities.Requester{}, fmt.Errorf("token has no subject")
	}

	return entities.Requester{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
