// Payment HTTP handlers.
//
// This file exposes REST endpoints for the intent-based payment flow:
//   - POST /payments/intent            (renter opens a payment intent)
//   - GET  /payments/verify            (reconcile with the gateway)
//   - GET  /agreements/{id}/payment    (payment attached to an agreement)
//
// POST supports the Idempotency-Key header for safe retries; verification is
// idempotent by construction.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/services"
)

// CreateIntentRequest is the JSON payload for opening a payment intent.
type CreateIntentRequest struct {
	AgreementID string `json:"agreement_id" binding:"required" example:"f0a1b2c3-d4e5-6789-abcd-ef0123456789"`
}

// CreateIntentResponse carries the recorded payment and the client secret the
// frontend needs to confirm the intent.
type CreateIntentResponse struct {
	Payment      *domain.Payment `json:"payment"`
	ClientSecret string          `json:"client_secret"`
}

// CreatePaymentIntent godoc
// @ID          createPaymentIntent
// @Summary     Open a payment intent
// @Description Charges the agreement's rental price. Only the renter may pay, and only once per agreement.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.CreateIntentRequest true "Intent payload"
// @Success     201 {object} handlers.CreateIntentResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     403 {object} handlers.ErrorResponse "Not the renter"
// @Failure     404 {object} handlers.ErrorResponse "Agreement not found"
// @Failure     409 {object} handlers.ErrorResponse "Payment already exists"
// @Failure     422 {object} handlers.ErrorResponse "Product price missing"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /payments/intent [post]
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "agreement_id is required")
		return
	}
	p, secret, err := h.paySvc.CreateIntent(c.Request.Context(), userID(c), req.AgreementID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the renter may pay for an agreement")
		case errors.Is(err, services.ErrPriceMissing):
			fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidState, "product has no chargeable price")
		case errors.Is(err, services.ErrDuplicatePayment):
			fail(c, http.StatusConflict, ErrCodeConflict, "payment already exists for this agreement")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateIntentResponse{Payment: p, ClientSecret: secret})
}

// VerifyPayment godoc
// @ID          verifyPayment
// @Summary     Verify a payment
// @Description Reconciles the recorded payment with the gateway state of its intent. Safe to repeat.
// @Tags        Payments
// @Produce     json
// @Security    BearerAuth
// @Param       intent_id query string true "Gateway intent ID"
// @Success     200 {object} domain.Payment
// @Failure     400 {object} handlers.ErrorResponse "Missing intent_id"
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Unknown intent"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /payments/verify [get]
func (h *Handlers) VerifyPayment(c *gin.Context) {
	intentID := strings.TrimSpace(c.Query("intent_id"))
	if intentID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter intent_id is required")
		return
	}
	p, err := h.paySvc.Verify(c.Request.Context(), userID(c), intentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIntentMissing):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no payment carries this intent")
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this agreement")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// GetAgreementPayment godoc
// @ID          getAgreementPayment
// @Summary     Get the payment of an agreement
// @Tags        Payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Agreement ID"
// @Success     200 {object} domain.Payment
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Agreement or payment not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /agreements/{id}/payment [get]
func (h *Handlers) GetAgreementPayment(c *gin.Context) {
	p, err := h.paySvc.GetByAgreement(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAgreementNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "agreement not found")
		case errors.Is(err, services.ErrPaymentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no payment for this agreement")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this agreement")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}
