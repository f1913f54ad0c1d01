package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleMentor    UserRole = "mentor"
	RoleInstitute UserRole = "institute"
)

var ValidUserRoles = map[UserRole]bool{
	RoleStudent:   true,
	RoleMentor:    true,
	RoleInstitute: true,
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username,omitempty"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	FullName    string    `json:"fullname,omitempty"`
	Role        UserRole  `json:"role"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsVerified  bool      `json:"isVerified"`
	IsDeleted   bool      `json:"isDeleted"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuthUser is the session identity carried in the request context after
// the access token is deserialized.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
}

type RegisterRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	ImageURL string   `json:"imageUrl"`
}

// UserUpdate carries the self-service editable fields; nil fields are
// left untouched.
type UserUpdate struct {
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	FullName  *string `json:"fullname"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
