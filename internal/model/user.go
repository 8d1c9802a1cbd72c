package model

import "time"

// Role values stored in the user record.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is an operator account. Field names match the entity-store records
// the legacy front end wrote, including the Portuguese "ativo" flag.
// Password carries the stored credential (plaintext on legacy records, a
// bcrypt hash once HASH_ON_LOGIN has upgraded it) and never leaves the API.
type User struct {
	ID          string    `json:"_id,omitempty"`
	UserName    string    `json:"userName"`
	Password    string    `json:"-"`
	Role        string    `json:"userRole"`
	Active      bool      `json:"ativo"`
	CreatedTime time.Time `json:"createdTime"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsUser reports whether the user holds the plain USER role.
func (u User) IsUser() bool { return u.Role == RoleUser }

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	UserName string `json:"userName" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// CreateUserRequest is the payload for creating an operator account.
type CreateUserRequest struct {
	UserName string `json:"userName" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=4,max=128"`
	Role     string `json:"userRole" binding:"required,oneof=ADMIN USER"`
	Active   *bool  `json:"ativo" binding:"required"`
}

// UpdateUserRequest is the payload for an admin edit of an account. The
// password is optional; an empty value keeps the stored credential.
type UpdateUserRequest struct {
	UserName string `json:"userName" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"omitempty,min=4,max=128"`
	Role     string `json:"userRole" binding:"required,oneof=ADMIN USER"`
	Active   *bool  `json:"ativo" binding:"required"`
}

// UpdateProfileRequest is the payload for the self-service profile edit.
type UpdateProfileRequest struct {
	UserName    string `json:"userName" binding:"required,min=2,max=255"`
	NewPassword string `json:"newPassword" binding:"omitempty,min=4,max=128"`
}
