// Review HTTP handlers.
//
// This file exposes REST endpoints for rating completed agreements:
//   - POST   /reviews                 (renter reviews a completed agreement)
//   - GET    /reviews                 (reviews written by the caller)
//   - GET    /products/{id}/reviews   (reviews of a listing, public)
//   - DELETE /reviews/{id}            (author removes their review)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// CreateReviewRequest is the JSON payload for creating a review.
type CreateReviewRequest struct {
	AgreementID string `json:"agreement_id" binding:"required" example:"f0a1b2c3-d4e5-6789-abcd-ef0123456789"`
	Rating      int    `json:"rating"       binding:"required,min=1,max=5" example:"4"`
	Comment     string `json:"comment"      binding:"max=2000" example:"Great drill, pickup was easy."`
}

// CreateReview godoc
// @ID          createReview
// @Summary     Review a completed agreement
// @Description One review per agreement and renter; the agreement must be completed.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body handlers.CreateReviewRequest true "Review payload"
// @Success     201 {object} domain.Review
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     403 {object} handlers.ErrorResponse "Not the renter"
// @Failure     404 {object} handlers.ErrorResponse "Agreement not found"
// @Failure     409 {object} handlers.ErrorResponse "Review already exists"
// @Failure     422 {object} handlers.ErrorResponse "Agreement not completed"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "agreement_id and a rating from 1 to 5 are required")
		return
	}
	r, err := h.reviewSvc.Create(c.Request.Context(), userID(c), req.AgreementID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating must be between 1 and 5")
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the renter may review an agreement")
		case errors.Is(err, services.ErrAgreementNotCompleted):
			fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidState, "agreement is not completed yet")
		case errors.Is(err, services.ErrDuplicateReview):
			fail(c, http.StatusConflict, ErrCodeConflict, "review already exists for this agreement")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListMyReviews godoc
// @ID          listMyReviews
// @Summary     List the caller's reviews
// @Tags        Reviews
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.Review
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews [get]
func (h *Handlers) ListMyReviews(c *gin.Context) {
	items, err := h.reviewSvc.ListByRenter(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListProductReviews godoc
// @ID          listProductReviews
// @Summary     List a listing's reviews
// @Tags        Reviews
// @Produce     json
// @Param       id path string true "Product ID"
// @Success     200 {array} domain.Review
// @Failure     404 {object} handlers.ErrorResponse "Product not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /products/{id}/reviews [get]
func (h *Handlers) ListProductReviews(c *gin.Context) {
	items, err := h.reviewSvc.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, items)
}

// ListOwnerReviews godoc
// @ID          listOwnerReviews
// @Summary     List the reviews an owner has received
// @Description Reviews across all of the owner's listings, newest first.
// @Tags        Reviews
// @Produce     json
// @Param       id path string true "Owner ID"
// @Success     200 {array} domain.Review
// @Failure     404 {object} handlers.ErrorResponse "Owner not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/{id}/reviews [get]
func (h *Handlers) ListOwnerReviews(c *gin.Context) {
	items, err := h.reviewSvc.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, items)
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Description Removes a review and reopens the agreement for reviewing. Author only.
// @Tags        Reviews
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Review ID"
// @Success     204 {string} string "No Content"
// @Failure     403 {object} handlers.ErrorResponse "Not the author"
// @Failure     404 {object} handlers.ErrorResponse "Review not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	if err := h.reviewSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author may delete a review")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
