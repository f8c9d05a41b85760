// Product HTTP handlers.
//
// This file exposes REST endpoints for listing resources:
//   - POST   /products             (create, multipart with optional image)
//   - GET    /products             (list all)
//   - GET    /products/search      (keyword search)
//   - GET    /products/{id}        (detail with review aggregates)
//   - PUT    /products/{id}        (partial update, owner only)
//   - DELETE /products/{id}        (remove, owner only)
//   - GET    /users/{id}/products  (listings of one owner)
//
// Listing images arrive as multipart uploads and are persisted in the blob
// store under images/; the stored locator is served via /files.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/services"
	"github.com/renterra/go-rental-backend/internal/storage"
	"github.com/renterra/go-rental-backend/internal/utils"
)

// imageMaxBytes caps a single listing image upload.
const imageMaxBytes = 5 << 20

// Uploads is the blob store used for listing images. Injected by the router.
type Uploads struct {
	Store *storage.Store
}

var uploads *Uploads

// SetUploads injects the image store used by multipart handlers.
func SetUploads(s *storage.Store) { uploads = &Uploads{Store: s} }

// Pagination carries page metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListProductsResponse wraps a page of listings and pagination information.
type ListProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// UpdateProductRequest is the JSON payload for a partial listing update.
type UpdateProductRequest struct {
	Category    *string  `json:"category,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	TimeUnit    *string  `json:"time_unit,omitempty" binding:"omitempty,oneof=hourly daily weekly"`
	Location    *string  `json:"location,omitempty"`
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Create a listing
// @Description Creates a product listing from a multipart form. The image part is optional.
// @Tags        Products
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       category    formData string  true  "Category"
// @Param       name        formData string  true  "Listing name"
// @Param       description formData string  true  "Description"
// @Param       price       formData number  true  "Rent per time unit"
// @Param       time_unit   formData string  true  "hourly, daily, or weekly"
// @Param       location    formData string  true  "Pickup location"
// @Param       image       formData file    false "Listing photo"
// @Success     201 {object} domain.Product
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := strings.TrimSpace(c.PostForm("category"))
	location := strings.TrimSpace(c.PostForm("location"))
	timeUnit := strings.TrimSpace(c.PostForm("time_unit"))
	price, perr := strconv.ParseFloat(c.PostForm("price"), 64)

	if name == "" || description == "" || category == "" || location == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, description, category, and location are required")
		return
	}
	if perr != nil || price < 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "price must be a non-negative number")
		return
	}
	switch timeUnit {
	case "hourly", "daily", "weekly":
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "time_unit must be hourly, daily, or weekly")
		return
	}

	image, err := saveProductImage(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	p, err := h.productSvc.Create(c.Request.Context(), userID(c), services.ProductInput{
		Category:    category,
		Name:        name,
		Description: description,
		Price:       price,
		TimeUnit:    timeUnit,
		Location:    location,
		Image:       image,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// saveProductImage stores an optional multipart image and returns its
// locator. An absent file part is not an error.
func saveProductImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	if file.Size > imageMaxBytes {
		return "", errors.New("image exceeds the 5 MiB limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", errors.New("image must be jpg, png, or webp")
	}
	if uploads == nil || uploads.Store == nil {
		return "", errors.New("image uploads are not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	locator := "images/" + uuid.NewString() + ext
	if err := uploads.Store.Save(locator, src); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return locator, nil
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List all listings
// @Tags        Products
// @Produce     json
// @Param       page      query int false "Page number"    minimum(1) default(1)
// @Param       page_size query int false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListProductsResponse
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.productSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListProductsResponse{
		Products: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// SearchProducts godoc
// @ID          searchProducts
// @Summary     Search listings
// @Description Keyword search over name, description, category, and location.
// @Tags        Products
// @Produce     json
// @Param       q query string true "Search query"
// @Success     200 {array} domain.Product
// @Failure     400 {object} handlers.ErrorResponse "Missing query"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products/search [get]
func (h *Handlers) SearchProducts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	items, err := h.productSvc.Search(c.Request.Context(), q)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Get a listing
// @Tags        Products
// @Produce     json
// @Param       id path string true "Product ID"
// @Success     200 {object} services.ProductDetail
// @Failure     404 {object} handlers.ErrorResponse "Product not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// ListOwnerProducts godoc
// @ID          listOwnerProducts
// @Summary     List one owner's listings
// @Tags        Products
// @Produce     json
// @Param       id path string true "Owner ID"
// @Success     200 {array} domain.Product
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/{id}/products [get]
func (h *Handlers) ListOwnerProducts(c *gin.Context) {
	items, err := h.productSvc.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UpdateProduct godoc
// @ID          updateProduct
// @Summary     Update a listing
// @Description Applies a partial update. Only the listing's owner may update it.
// @Tags        Products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string                         true "Product ID"
// @Param       body body handlers.UpdateProductRequest true "Fields to update"
// @Success     200 {object} domain.Product
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     403 {object} handlers.ErrorResponse "Not the owner"
// @Failure     404 {object} handlers.ErrorResponse "Product not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products/{id} [put]
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid update payload")
		return
	}
	p, err := h.productSvc.Update(c.Request.Context(), userID(c), c.Param("id"), services.ProductUpdate{
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		TimeUnit:    req.TimeUnit,
		Location:    req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the owner may update a listing")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// DeleteProduct godoc
// @ID          deleteProduct
// @Summary     Delete a listing
// @Tags        Products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     204 {string} string "No Content"
// @Failure     403 {object} handlers.ErrorResponse "Not the owner"
// @Failure     404 {object} handlers.ErrorResponse "Product not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products/{id} [delete]
func (h *Handlers) DeleteProduct(c *gin.Context) {
	if err := h.productSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the owner may delete a listing")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
