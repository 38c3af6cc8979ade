package domain

import (
	"context"
	"time"
)

// Profile names carried by users and tokens.
const (
	ProfileClient = "client"
	ProfileAgent  = "agent"
	ProfileExpert = "expert"
)

// User represents an account. Accounts are created either explicitly or
// lazily during a booking when an add_users email is unseen.
// swagger:model User
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	Phone         string    `json:"phone,omitempty"`
	PasswordHash  string    `json:"-"`
	Salt          string    `json:"-"`
	PrivacyPolicy bool      `json:"privacy_policy"`
	CompanyID     int64     `json:"company_id,omitempty"`
	Membership    bool      `json:"membership"`
	Profile       string    `json:"profile_name"`
	Founder       bool      `json:"founder"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity is the resolved acting identity of a request, threaded explicitly
// into service calls instead of living in ambient state. A nil *Identity
// means the request is unauthenticated.
type Identity struct {
	UserID     int64
	Email      string
	Membership bool
	Profile    string
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated identity.
type TokenIssuer interface {
	Issue(identity *Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserRepository defines the interface for user and company-association
// storage. Implementations are usable both standalone and inside a booking
// transaction (see TxManager).
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CompanyIDByUserID returns the company the user belongs to, or 0 when
	// the user has no company association.
	CompanyIDByUserID(ctx context.Context, userID int64) (int64, error)
}

// AuthService authenticates users and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
