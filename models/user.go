package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the marketplace role of an account
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleFarmer
)

// ParseRole maps the backend's role string onto a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return RoleCustomer, nil
	case "farmer":
		return RoleFarmer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleFarmer:
		return "farmer"
	}
	return ""
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleFarmer
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the account record returned by GET /auth/me and cached under the "user" key
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         Role       `json:"role"`
	Phone        *string    `json:"phone,omitempty"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	IsActive     bool       `json:"is_active,omitempty"`
	IsVerified   bool       `json:"is_verified,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Validate checks the fields the session relies on
func (u *User) Validate() error {
	if u.ID == 0 {
		return fmt.Errorf("user record is missing an id")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("user record has no valid role")
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate session state
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Phone != nil {
		p := *u.Phone
		c.Phone = &p
	}
	if u.ProfileImage != nil {
		p := *u.ProfileImage
		c.ProfileImage = &p
	}
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		c.CreatedAt = &t
	}
	return &c
}

// UserPatch is a shallow partial update of the cached user; nil fields are left alone
type UserPatch struct {
	Email        *string `json:"email,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// Apply merges p into u, later fields winning
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		v := *p.Phone
		u.Phone = &v
	}
	if p.ProfileImage != nil {
		v := *p.ProfileImage
		u.ProfileImage = &v
	}
}

// Empty reports whether the patch changes nothing
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.ProfileImage == nil
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"notblank"`
	Role      Role    `json:"role" validate:"required"`
	FirstName string  `json:"first_name" validate:"notblank"`
	LastName  string  `json:"last_name" validate:"notblank"`
	Phone     *string `json:"phone"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by POST /auth/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileUpdate is the payload for PUT /users/profile
type ProfileUpdate struct {
	FirstName string  `json:"first_name" validate:"notblank"`
	LastName  string  `json:"last_name" validate:"notblank"`
	Phone     *string `json:"phone"`
}
