// Package services defines the business logic of the rental marketplace:
// accounts, product listings, rental requests, agreements, payments, reviews,
// notifications, and renter/owner chat. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an email address that
	// already belongs to another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails, without revealing
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Listing-related errors.
var (
	// ErrProductNotFound indicates that the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// Rental-request errors.
var (
	// ErrRequestNotFound indicates that the requested rental request does not
	// exist.
	ErrRequestNotFound = errors.New("rental request not found")

	// ErrDuplicateRequest is returned when a renter already has a request for
	// the same product.
	ErrDuplicateRequest = errors.New("rental request already exists")

	// ErrSelfRent is returned when an owner attempts to rent their own
	// product.
	ErrSelfRent = errors.New("cannot rent own product")

	// ErrNotRequestOwner is returned when someone other than the product
	// owner attempts to accept or reject a request.
	ErrNotRequestOwner = errors.New("not the owner of this request")

	// ErrRequestResolved is returned when accepting or rejecting a request
	// that has already been resolved.
	ErrRequestResolved = errors.New("rental request already resolved")

	// ErrInvalidStatus is returned when a status transition names a status
	// outside the allowed set.
	ErrInvalidStatus = errors.New("invalid request status")
)

// Agreement-related errors.
var (
	// ErrAgreementNotFound indicates that the requested agreement does not
	// exist.
	ErrAgreementNotFound = errors.New("agreement not found")

	// ErrInvalidPeriod is returned when the pickup date falls after the
	// return date.
	ErrInvalidPeriod = errors.New("pickup date must not be after return date")

	// ErrAgreementNotCompleted is returned when reviewing an agreement that
	// has not been completed yet.
	ErrAgreementNotCompleted = errors.New("agreement not completed")

	// ErrDocumentGone indicates that the agreement exists but its document
	// file is no longer present on disk.
	ErrDocumentGone = errors.New("agreement document is gone")
)

// Payment-related errors.
var (
	// ErrPaymentNotFound indicates that the requested payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicatePayment is returned when an agreement already has a
	// payment.
	ErrDuplicatePayment = errors.New("payment already exists for agreement")

	// ErrPriceMissing is returned when the product behind an agreement
	// carries no positive price, so no amount can be charged.
	ErrPriceMissing = errors.New("product price missing")

	// ErrIntentMissing is returned when verification names an intent id that
	// no payment carries.
	ErrIntentMissing = errors.New("payment intent not found")
)

// Review-related errors.
var (
	// ErrReviewNotFound indicates that the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateReview is returned when a renter already reviewed the same
	// agreement.
	ErrDuplicateReview = errors.New("review already exists for agreement")

	// ErrInvalidRating is returned when a rating falls outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Cross-cutting errors.
var (
	// ErrForbidden is returned when an authenticated user attempts an
	// operation on a resource they do not participate in.
	ErrForbidden = errors.New("forbidden")

	// ErrNotificationNotFound indicates that the requested notification does
	// not exist.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrConversationNotFound indicates that the requested conversation does
	// not exist or is not accessible to the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyMessage is returned when a chat message body is empty.
	ErrEmptyMessage = errors.New("message is empty")
)
