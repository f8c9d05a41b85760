// User HTTP handlers.
//
// This file exposes REST endpoints for profiles:
//   - GET /users/me     (caller's own profile)
//   - GET /users/{id}   (public profile with activity counts)
//   - PUT /users/me     (partial update of the caller's account)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// UpdateUserRequest is the JSON payload for a partial profile update.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,max=120"`
	Area     *string `json:"area,omitempty"      binding:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty"     binding:"omitempty,max=32"`
	Picture  *string `json:"picture,omitempty"   binding:"omitempty,max=255"`
	Password *string `json:"password,omitempty"  binding:"omitempty,min=8,max=72"`
}

// GetMyProfile godoc
// @ID          getMyProfile
// @Summary     Get the caller's profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Profile
// @Failure     404 {object} handlers.ErrorResponse "User not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me [get]
func (h *Handlers) GetMyProfile(c *gin.Context) {
	h.profile(c, userID(c))
}

// GetUserProfile godoc
// @ID          getUserProfile
// @Summary     Get a public profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} services.Profile
// @Failure     404 {object} handlers.ErrorResponse "User not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUserProfile(c *gin.Context) {
	h.profile(c, c.Param("id"))
}

func (h *Handlers) profile(c *gin.Context, id string) {
	p, err := h.userSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateMyProfile godoc
// @ID          updateMyProfile
// @Summary     Update the caller's account
// @Description Applies a partial update; omitted fields are untouched.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body handlers.UpdateUserRequest true "Fields to update"
// @Success     200 {object} domain.UserSummary
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "User not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me [put]
func (h *Handlers) UpdateMyProfile(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid update payload")
		return
	}
	u, err := h.userSvc.Update(c.Request.Context(), userID(c), services.UserUpdate{
		FullName: req.FullName,
		Area:     req.Area,
		Phone:    req.Phone,
		Picture:  req.Picture,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, u.Summary())
}
