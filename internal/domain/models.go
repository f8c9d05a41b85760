// Package domain defines the persistence models for the rental marketplace:
// users, products, rental requests, agreements, payments, reviews,
// notifications, and conversations. These types are mapped with GORM and form
// the core data layer of the application.
package domain

import "time"

// Party roles. A user registers as a renter or an owner; admins are
// provisioned out of band.
const (
	RoleRenter = "renter"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// Rental request states. Requests start as pending and are resolved exactly
// once by the product owner.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Agreement states.
const (
	AgreementActive    = "active"
	AgreementCompleted = "completed"
)

// Payment states. Terminal states (paid, failed) are never overwritten.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// User represents any party with an identity in the system: an owner listing
// products, a renter submitting rental requests, or an admin.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier, lowercased before storage.
//   - Password: bcrypt hash; never serialized.
//   - Role: renter, owner, or admin.
//   - Picture: optional blob-store locator of the profile image.
type User struct {
	ID        string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FullName  string    `json:"full_name"    gorm:"type:varchar(120);not null"`
	Email     string    `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Phone     string    `json:"phone"        gorm:"type:varchar(32)"`
	Password  string    `json:"-"            gorm:"type:varchar(120);not null"`
	Role      string    `json:"role"         gorm:"type:varchar(16);not null;check:role IN ('renter','owner','admin')"`
	Area      string    `json:"area,omitempty"    gorm:"type:varchar(120)"`
	Picture   string    `json:"picture,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Summary returns the subset of User fields safe to embed in expanded
// responses (request and agreement listings, reviews).
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email, Picture: u.Picture}
}

// UserSummary is the public projection of a party attached to related records.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
}

// Product is a rentable listing owned by a single party.
//
// Price is the rent per TimeUnit in the platform's display currency and must
// be non-negative. Image holds the blob-store locator of the listing photo.
type Product struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	OwnerID     string    `json:"owner_id"    gorm:"type:char(36);not null;index:idx_products_owner"`
	Category    string    `json:"category"    gorm:"type:varchar(64);not null"`
	Name        string    `json:"name"        gorm:"type:varchar(160);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       float64   `json:"price"       gorm:"not null;check:price >= 0"`
	TimeUnit    string    `json:"time_unit"   gorm:"type:varchar(16);not null"` // hourly, daily, weekly
	Location    string    `json:"location"    gorm:"type:varchar(160);not null"`
	Image       string    `json:"image,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner *User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// RentalRequest links a renter to a product they want to rent. At most one
// request may exist per (product, renter) pair, enforced by a composite
// unique index; the renter must not be the product owner.
//
// Status transitions are performed only by the product owner and only from
// pending. A pending request may be cancelled (deleted) by its renter, which
// also removes the notifications that reference it.
type RentalRequest struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:ux_requests_product_renter,priority:1"`
	OwnerID   string    `json:"owner_id"   gorm:"type:char(36);not null;index:idx_requests_owner"`
	RenterID  string    `json:"renter_id"  gorm:"type:char(36);not null;uniqueIndex:ux_requests_product_renter,priority:2"`
	Status    string    `json:"status"     gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','rejected')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	Owner   *User    `json:"owner,omitempty"   gorm:"foreignKey:OwnerID;references:ID"`
	Renter  *User    `json:"renter,omitempty"  gorm:"foreignKey:RenterID;references:ID"`
}

// TableName returns the database table name for RentalRequest.
func (RentalRequest) TableName() string { return "rental_requests" }

// Agreement is the binding document generated from a rental request plus a
// date range. It is the aggregation point for payments and reviews.
//
// FilePath is the blob-store locator of the rendered PDF and is immutable
// once the row is created. IsPaid mirrors the payment outcome; Reviewed is
// set when a review is created and reset when that review is deleted.
type Agreement struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	RequestID  string    `json:"request_id"  gorm:"type:char(36);not null;index:idx_agreements_request"`
	OwnerID    string    `json:"owner_id"    gorm:"type:char(36);not null;index:idx_agreements_owner"`
	RenterID   string    `json:"renter_id"   gorm:"type:char(36);not null;index:idx_agreements_renter"`
	ProductID  string    `json:"product_id"  gorm:"type:char(36);not null"`
	PickupDate time.Time `json:"pickup_date" gorm:"not null"`
	ReturnDate time.Time `json:"return_date" gorm:"not null"`
	Status     string    `json:"status"      gorm:"type:varchar(16);not null;default:'active';check:status IN ('active','completed')"`
	IsPaid     bool      `json:"is_paid"     gorm:"not null;default:false"`
	Reviewed   bool      `json:"reviewed"    gorm:"not null;default:false"`
	FileName   string    `json:"file_name"   gorm:"type:varchar(255);not null"`
	FilePath   string    `json:"-"           gorm:"type:varchar(255);not null"`
	CreatedBy  string    `json:"created_by"  gorm:"type:char(36);not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	Owner   *User    `json:"owner,omitempty"   gorm:"foreignKey:OwnerID;references:ID"`
	Renter  *User    `json:"renter,omitempty"  gorm:"foreignKey:RenterID;references:ID"`
}

// TableName returns the database table name for Agreement.
func (Agreement) TableName() string { return "agreements" }

// Participant reports whether the given party id is the owner or renter on
// this agreement.
func (a *Agreement) Participant(id string) bool {
	return a.OwnerID == id || a.RenterID == id
}
