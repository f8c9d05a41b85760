// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and the
// Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses. Depending on interfaces here keeps transport concerns separate
// from business logic and lets tests substitute fakes per endpoint.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/http/middleware"
	"github.com/renterra/go-rental-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// UserService defines profile reads and updates.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*services.Profile, error)
	Update(ctx context.Context, userID string, in services.UserUpdate) (*domain.User, error)
}

// ProductService defines listing operations.
type ProductService interface {
	Create(ctx context.Context, ownerID string, in services.ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*services.ProductDetail, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Update(ctx context.Context, actorID, id string, in services.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, actorID, id string) error
}

// RequestService defines rental-request operations.
type RequestService interface {
	Create(ctx context.Context, renterID, productID string) (*domain.RentalRequest, error)
	UpdateStatus(ctx context.Context, actorID, requestID, status string) (*domain.RentalRequest, error)
	Get(ctx context.Context, actorID, requestID string) (*domain.RentalRequest, error)
	List(ctx context.Context, partyID string) ([]domain.RentalRequest, error)
	Cancel(ctx context.Context, actorID, requestID string) error
}

// AgreementService defines agreement operations.
type AgreementService interface {
	Generate(ctx context.Context, actorID, requestID string, pickup, ret time.Time) (*domain.Agreement, error)
	Get(ctx context.Context, actorID, id string) (*domain.Agreement, error)
	GetByRequest(ctx context.Context, actorID, requestID string) (*domain.Agreement, error)
	List(ctx context.Context, partyID, role string) ([]domain.Agreement, error)
	Complete(ctx context.Context, actorID, id string) (*domain.Agreement, error)
	Download(ctx context.Context, actorID, id string) (path, name string, err error)
}

// PaymentService defines payment operations.
type PaymentService interface {
	CreateIntent(ctx context.Context, actorID, agreementID string) (*domain.Payment, string, error)
	Verify(ctx context.Context, actorID, intentID string) (*domain.Payment, error)
	GetByAgreement(ctx context.Context, actorID, agreementID string) (*domain.Payment, error)
}

// ReviewService defines review operations.
type ReviewService interface {
	Create(ctx context.Context, actorID, agreementID string, rating int, comment string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.Review, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Review, error)
	Delete(ctx context.Context, actorID, reviewID string) error
}

// NotificationService defines notification operations.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	UnseenCount(ctx context.Context, userID string) (int64, error)
	MarkSeen(ctx context.Context, actorID, id string) error
	MarkAllSeen(ctx context.Context, userID string) error
}

// ChatService defines direct-message operations.
type ChatService interface {
	Send(ctx context.Context, senderID, recipientID, body string) (*domain.ChatMessage, error)
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, actorID, conversationID string) ([]domain.ChatMessage, error)
}

// Handlers groups the HTTP endpoints of the public API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	authSvc    AuthService
	userSvc    UserService
	productSvc ProductService
	requestSvc RequestService
	agreeSvc   AgreementService
	paySvc     PaymentService
	reviewSvc  ReviewService
	notifSvc   NotificationService
	chatSvc    ChatService
}

// New constructs a Handlers instance bound to the given services.
func New(
	authSvc AuthService,
	userSvc UserService,
	productSvc ProductService,
	requestSvc RequestService,
	agreeSvc AgreementService,
	paySvc PaymentService,
	reviewSvc ReviewService,
	notifSvc NotificationService,
	chatSvc ChatService,
) *Handlers {
	return &Handlers{
		authSvc:    authSvc,
		userSvc:    userSvc,
		productSvc: productSvc,
		requestSvc: requestSvc,
		agreeSvc:   agreeSvc,
		paySvc:     paySvc,
		reviewSvc:  reviewSvc,
		notifSvc:   notifSvc,
		chatSvc:    chatSvc,
	}
}

// userID extracts the authenticated user id set by the auth middleware.
func userID(c *gin.Context) string { return middleware.UserID(c) }

// userRole extracts the authenticated user's role set by the auth middleware.
func userRole(c *gin.Context) string { return middleware.UserRole(c) }
