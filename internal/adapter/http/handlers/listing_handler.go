package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alx_travel_app/internal/adapter/http/dto/request"
	"alx_travel_app/internal/adapter/http/dto/response"
	"alx_travel_app/internal/adapter/http/middleware"
	"alx_travel_app/internal/usecase"
	"alx_travel_app/pkg"
)

const maxImageBytes = 5 << 20

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	usecase usecase.IListingUseCase
}

func NewListingHandler(uc usecase.IListingUseCase) *ListingHandler {
	return &ListingHandler{usecase: uc}
}

// Search godoc
// @Summary      Search available listings
// @Tags         listings
// @Produce      json
// @Param        q     query  string  false  "Free text over title, description, location and type"
// @Param        page  query  int     false  "Page number (10 per page)"
// @Success      200  {object}  response.ListingPageResponse
// @Router       /listings [get]
func (h *ListingHandler) Search(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
			return
		}
		page = n
	}

	result, err := h.usecase.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "[listing][handler] search failed", "err", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromListingPage(result))
}

// GetByID godoc
// @Summary  Get a listing
// @Tags     listings
// @Produce  json
// @Param    id  path  string  true  "Listing ID"
// @Success  200  {object}  response.ListingResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /listings/{id} [get]
func (h *ListingHandler) GetByID(c *gin.Context) {
	listing, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromListing(listing))
}

// Create godoc
// @Summary   Create a listing owned by the caller
// @Tags      listings
// @Accept    json
// @Produce   json
// @Param     body  body  request.ListingRequest  true  "Listing"
// @Success   201  {object}  response.ListingResponse
// @Failure   400  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	var payload request.ListingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	listing, err := h.usecase.Create(c.Request.Context(), payload.ToInput(), middleware.RequesterFrom(c))
	if err != nil {
		slog.WarnContext(c.Request.Context(), "[listing][handler] create failed", "err", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromListing(listing))
}

// Update godoc
// @Summary   Replace a listing's fields (owner only)
// @Tags      listings
// @Accept    json
// @Produce   json
// @Param     id    path  string                  true  "Listing ID"
// @Param     body  body  request.ListingRequest  true  "Listing"
// @Success   200  {object}  response.ListingResponse
// @Failure   403  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	var payload request.ListingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	listing, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToInput(), middleware.RequesterFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromListing(listing))
}

// Delete godoc
// @Summary   Delete a listing (owner only)
// @Tags      listings
// @Param     id  path  string  true  "Listing ID"
// @Success   204
// @Security  Bearer
// @Router    /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage godoc
// @Summary   Upload the listing photo (owner only)
// @Tags      listings
// @Accept    multipart/form-data
// @Produce   json
// @Param     id     path      string  true  "Listing ID"
// @Param     image  formData  file    true  "Image file"
// @Success   200  {object}  response.ListingResponse
// @Security  Bearer
// @Router    /listings/{id}/image [put]
func (h *ListingHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_IMAGE", "Multipart field \"image\" is required (max 5MB)", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	listing, err := h.usecase.UploadImage(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "[listing][handler] image upload failed", "listing_id", c.Param("id"), "err", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromListing(listing))
}

// ListByOwner godoc
// @Summary  Listings published by a user
// @Tags     listings
// @Produce  json
// @Param    user_id  path  string  true  "Owner ID"
// @Success  200  {array}  response.ListingResponse
// @Router   /users/{user_id}/listings [get]
func (h *ListingHandler) ListByOwner(c *gin.Context) {
	listings, err := h.usecase.ListByOwner(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromListings(listings))
}
