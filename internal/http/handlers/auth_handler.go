// Auth HTTP handlers.
//
// This file exposes the public account endpoints:
//   - POST /auth/register  (create account)
//   - POST /auth/login     (obtain access token)
//
// Both endpoints are unauthenticated; everything else in the API sits behind
// the bearer-token middleware.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/services"
)

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=120" example:"Jordan Lee"`
	Email    string `json:"email"     binding:"required,email" example:"jordan@example.com"`
	Password string `json:"password"  binding:"required,min=8,max=72" example:"s3cret-pass"`
	Role     string `json:"role"      binding:"omitempty,oneof=renter owner" example:"renter"`
	Area     string `json:"area"      example:"Kreuzberg"`
	Phone    string `json:"phone"     example:"+49 30 1234567"`
}

// LoginRequest is the JSON payload for obtaining an access token.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email" example:"jordan@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// LoginResponse carries the access token and the account it belongs to.
type LoginResponse struct {
	Token string             `json:"token"`
	User  domain.UserSummary `json:"user"`
}

// Register godoc
// @ID          register
// @Summary     Register an account
// @Description Creates a renter or owner account. Emails are unique and lowercased.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.RegisterRequest true "Account payload"
// @Success     201 {object} domain.UserSummary
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     409 {object} handlers.ErrorResponse "Email already registered"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid registration payload")
		return
	}
	u, err := h.authSvc.Register(c.Request.Context(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Area:     req.Area,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, u.Summary())
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.LoginRequest true "Credentials"
// @Success     200 {object} handlers.LoginResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid login payload")
		return
	}
	u, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: u.Summary()})
}
