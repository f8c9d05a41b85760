// Rental request HTTP handlers.
//
// This file exposes REST endpoints for the request lifecycle:
//   - POST   /rental-requests              (renter opens a request)
//   - GET    /rental-requests              (requests the caller participates in)
//   - GET    /rental-requests/{id}         (single request, participants only)
//   - PUT    /rental-requests/{id}/status  (owner accepts or rejects)
//   - DELETE /rental-requests/{id}         (renter withdraws a pending request)
//
// POST supports the Idempotency-Key header: a replayed key returns the
// previously created request instead of a conflict.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// CreateRequestRequest is the JSON payload for opening a rental request.
type CreateRequestRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"7b0d1c2e-9c3f-4a57-8d3a-5b1f0a9c1d2e"`
}

// UpdateRequestStatusRequest is the JSON payload for resolving a request.
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected" example:"accepted"`
}

// CreateRentalRequest godoc
// @ID          createRentalRequest
// @Summary     Open a rental request
// @Description Submits a request for a product on behalf of the caller. One request per product and renter.
// @Tags        Requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.CreateRequestRequest true "Request payload"
// @Success     201 {object} domain.RentalRequest
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Product not found"
// @Failure     409 {object} handlers.ErrorResponse "Duplicate request"
// @Failure     422 {object} handlers.ErrorResponse "Own product"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /rental-requests [post]
func (h *Handlers) CreateRentalRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product_id is required")
		return
	}

	r, err := h.requestSvc.Create(c.Request.Context(), userID(c), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		case errors.Is(err, services.ErrSelfRent):
			fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidState, "cannot rent your own product")
		case errors.Is(err, services.ErrDuplicateRequest):
			fail(c, http.StatusConflict, ErrCodeConflict, "rental request already exists")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListRentalRequests godoc
// @ID          listRentalRequests
// @Summary     List the caller's rental requests
// @Description Returns requests where the caller is the renter or the product owner, newest first.
// @Tags        Requests
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.RentalRequest
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /rental-requests [get]
func (h *Handlers) ListRentalRequests(c *gin.Context) {
	items, err := h.requestSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetRentalRequest godoc
// @ID          getRentalRequest
// @Summary     Get a rental request
// @Tags        Requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Request ID"
// @Success     200 {object} domain.RentalRequest
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Request not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /rental-requests/{id} [get]
func (h *Handlers) GetRentalRequest(c *gin.Context) {
	r, err := h.requestSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "rental request not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this request")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}

// UpdateRentalRequestStatus godoc
// @ID          updateRentalRequestStatus
// @Summary     Accept or reject a request
// @Description Resolves a pending request. Only the product owner may resolve it, and only once.
// @Tags        Requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string                                true "Request ID"
// @Param       body body handlers.UpdateRequestStatusRequest true "New status"
// @Success     200 {object} domain.RentalRequest
// @Failure     400 {object} handlers.ErrorResponse "Invalid status"
// @Failure     403 {object} handlers.ErrorResponse "Not the owner"
// @Failure     404 {object} handlers.ErrorResponse "Request not found"
// @Failure     409 {object} handlers.ErrorResponse "Already resolved"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /rental-requests/{id}/status [put]
func (h *Handlers) UpdateRentalRequestStatus(c *gin.Context) {
	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be accepted or rejected")
		return
	}
	r, err := h.requestSvc.UpdateStatus(c.Request.Context(), userID(c), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be accepted or rejected")
		case errors.Is(err, services.ErrRequestNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "rental request not found")
		case errors.Is(err, services.ErrNotRequestOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the product owner may resolve a request")
		case errors.Is(err, services.ErrRequestResolved):
			fail(c, http.StatusConflict, ErrCodeConflict, "rental request already resolved")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}

// CancelRentalRequest godoc
// @ID          cancelRentalRequest
// @Summary     Withdraw a pending request
// @Description Deletes a pending request and its notifications. Only the renter may withdraw it.
// @Tags        Requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Request ID"
// @Success     204 {string} string "No Content"
// @Failure     403 {object} handlers.ErrorResponse "Not the renter"
// @Failure     404 {object} handlers.ErrorResponse "Request not found"
// @Failure     409 {object} handlers.ErrorResponse "Already resolved"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /rental-requests/{id} [delete]
func (h *Handlers) CancelRentalRequest(c *gin.Context) {
	if err := h.requestSvc.Cancel(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "rental request not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the renter may withdraw a request")
		case errors.Is(err, services.ErrRequestResolved):
			fail(c, http.StatusConflict, ErrCodeConflict, "rental request already resolved")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
