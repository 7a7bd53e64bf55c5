package dto

import (
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/shared"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration.
// Password strength and email format are checked by the auth service, after
// the duplicate check, so only shape is validated here.
type RegisterRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

// Normalize trims surrounding whitespace. The password is left untouched.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 50)),
	)
}

// LoginRequest: payload for user login, Login is either a username or an email
type LoginRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func FromIdentityToUserResponse(id shared.Identity) UserResponse {
	return UserResponse{
		ID:        id.UserID,
		Username:  id.Username,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
	}
}

// AuthResponse: response payload after login or registration
type AuthResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	CSRFToken string       `json:"csrf_token"`
	User      UserResponse `json:"user"`
}

// CSRFResponse: the anti-forgery token of the current session
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}
