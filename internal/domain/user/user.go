// Package user holds the account identity referenced by ledgers,
// subscriptions, and generations.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents the account aggregate root.
type User struct {
	id                  uint
	sid                 string
	email               string
	name                string
	role                string
	providerCustomerRef *string
	createdAt           time.Time
	updatedAt           time.Time
	version             int
}

// NewUser creates a new user with the default role.
func NewUser(sid, email, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if sid == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %s", email)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now().UTC()
	return &User{
		sid:       sid,
		email:     email,
		name:      strings.TrimSpace(name),
		role:      RoleUser,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID                  uint
	SID                 string
	Email               string
	Name                string
	Role                string
	ProviderCustomerRef *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

// Reconstruct rebuilds a user from persistence.
func Reconstruct(p ReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if p.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		return nil, fmt.Errorf("invalid role: %s", p.Role)
	}

	return &User{
		id:                  p.ID,
		sid:                 p.SID,
		email:               p.Email,
		name:                p.Name,
		role:                p.Role,
		providerCustomerRef: p.ProviderCustomerRef,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
		version:             p.Version,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) SID() string                  { return u.sid }
func (u *User) Email() string                { return u.email }
func (u *User) Name() string                 { return u.name }
func (u *User) Role() string                 { return u.role }
func (u *User) ProviderCustomerRef() *string { return u.providerCustomerRef }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }
func (u *User) Version() int                 { return u.version }

func (u *User) IsAdmin() bool { return u.role == RoleAdmin }

// SetID assigns the persistence identity after the initial insert.
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// SetProviderCustomerRef records the billing provider's customer reference
// the first time a payment is initiated for the user.
func (u *User) SetProviderCustomerRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("provider customer ref cannot be empty")
	}
	u.providerCustomerRef = &ref
	u.updatedAt = time.Now().UTC()
	u.version++
	return nil
}
