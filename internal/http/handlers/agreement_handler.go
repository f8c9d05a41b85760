// Agreement HTTP handlers.
//
// This file exposes REST endpoints for agreements and their documents:
//   - POST /agreements                        (generate from a request)
//   - GET  /agreements                        (caller's agreements; all for admins)
//   - GET  /agreements/{id}                   (single agreement)
//   - GET  /agreements/request/{requestId}    (agreement behind a request)
//   - PUT  /agreements/{id}/complete          (owner marks the rental done)
//   - GET  /agreements/{id}/download          (PDF document)
//
// Dates are accepted as "2006-01-02" or RFC 3339.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// GenerateAgreementRequest is the JSON payload for generating an agreement.
type GenerateAgreementRequest struct {
	RequestID  string `json:"request_id"  binding:"required" example:"7b0d1c2e-9c3f-4a57-8d3a-5b1f0a9c1d2e"`
	PickupDate string `json:"pickup_date" binding:"required" example:"2026-09-05"`
	ReturnDate string `json:"return_date" binding:"required" example:"2026-09-12"`
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// GenerateAgreement godoc
// @ID          generateAgreement
// @Summary     Generate an agreement
// @Description Renders and stores the agreement document for a rental request. Idempotent per request.
// @Tags        Agreements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body handlers.GenerateAgreementRequest true "Agreement payload"
// @Success     201 {object} domain.Agreement
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload or period"
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Request not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements [post]
func (h *Handlers) GenerateAgreement(c *gin.Context) {
	var req GenerateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request_id, pickup_date, and return_date are required")
		return
	}
	pickup, err := parseDate(req.PickupDate)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pickup_date must be YYYY-MM-DD or RFC 3339")
		return
	}
	ret, err := parseDate(req.ReturnDate)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "return_date must be YYYY-MM-DD or RFC 3339")
		return
	}

	a, err := h.agreeSvc.Generate(c.Request.Context(), userID(c), req.RequestID, pickup, ret)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pickup date must not be after return date")
		case errors.Is(err, services.ErrRequestNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "rental request not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this request")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListAgreements godoc
// @ID          listAgreements
// @Summary     List agreements
// @Description Returns the caller's agreements, newest first. Admins see every agreement.
// @Tags        Agreements
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.Agreement
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements [get]
func (h *Handlers) ListAgreements(c *gin.Context) {
	items, err := h.agreeSvc.List(c.Request.Context(), userID(c), userRole(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetAgreement godoc
// @ID          getAgreement
// @Summary     Get an agreement
// @Tags        Agreements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Agreement ID"
// @Success     200 {object} domain.Agreement
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Agreement not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements/{id} [get]
func (h *Handlers) GetAgreement(c *gin.Context) {
	a, err := h.agreeSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failAgreement(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// GetAgreementByRequest godoc
// @ID          getAgreementByRequest
// @Summary     Get the agreement of a request
// @Tags        Agreements
// @Produce     json
// @Security    BearerAuth
// @Param       requestId path string true "Request ID"
// @Success     200 {object} domain.Agreement
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "No agreement for this request"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements/request/{requestId} [get]
func (h *Handlers) GetAgreementByRequest(c *gin.Context) {
	a, err := h.agreeSvc.GetByRequest(c.Request.Context(), userID(c), c.Param("requestId"))
	if err != nil {
		failAgreement(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// CompleteAgreement godoc
// @ID          completeAgreement
// @Summary     Mark an agreement completed
// @Description Completing is owner-only and idempotent.
// @Tags        Agreements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Agreement ID"
// @Success     200 {object} domain.Agreement
// @Failure     403 {object} handlers.ErrorResponse "Not the owner"
// @Failure     404 {object} handlers.ErrorResponse "Agreement not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements/{id}/complete [put]
func (h *Handlers) CompleteAgreement(c *gin.Context) {
	a, err := h.agreeSvc.Complete(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the owner may complete an agreement")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, a)
}

// DownloadAgreement godoc
// @ID          downloadAgreement
// @Summary     Download the agreement document
// @Description Streams the stored PDF. Agreements whose document vanished return 410.
// @Tags        Agreements
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       id path string true "Agreement ID"
// @Success     200 {file} file "PDF document"
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Agreement not found"
// @Failure     410 {object} handlers.ErrorResponse "Document gone"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements/{id}/download [get]
func (h *Handlers) DownloadAgreement(c *gin.Context) {
	path, name, err := h.agreeSvc.Download(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this agreement")
		case errors.Is(err, services.ErrDocumentGone):
			fail(c, http.StatusGone, ErrCodeGone, "agreement document is no longer available")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	c.FileAttachment(path, name)
}

// failAgreement maps the shared read-path errors for agreement lookups.
func failAgreement(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAgreementNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this agreement")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
