package models

import "time"

// User role constants
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleArtist = "artist"
)

// Release status constants
const (
	ReleaseDraft     = "draft"
	ReleaseScheduled = "scheduled"
	ReleasePublished = "published"
	ReleaseTakedown  = "takedown"
)

// Release type constants
const (
	TypeSingle = "single"
	TypeEP     = "ep"
	TypeAlbum  = "album"
)

// Book status constants
const (
	BookDraft     = "draft"
	BookPublished = "published"
	BookArchived  = "archived"
)

// Payout status constants
const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutPaid       = "paid"
	PayoutFailed     = "failed"
)

// Distribution status constants (music channels)
const (
	DistPending   = "pending"
	DistDelivered = "delivered"
	DistLive      = "live"
	DistRejected  = "rejected"
	DistTakedown  = "takedown"
)

// Store publication status constants (book stores)
const (
	PubPending  = "pending"
	PubLive     = "live"
	PubRejected = "rejected"
	PubRemoved  = "removed"
)

// Channel kind and status constants
const (
	KindMusic      = "music"
	KindPublishing = "publishing"

	ChannelActive   = "active"
	ChannelInactive = "inactive"
)

// Domain types

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Page is the standard paginated list envelope.
type Page struct {
	Items   any `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
