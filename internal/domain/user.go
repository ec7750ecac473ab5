package domain

import "time"

// User is a registered account. Email is the lookup key for login and
// profile updates (exact, case-sensitive match via the email GSI).
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	FirstName    string     `json:"firstName" dynamodbav:"first_name"`
	LastName     string     `json:"lastName" dynamodbav:"last_name"`
	UserName     string     `json:"userName,omitempty" dynamodbav:"user_name"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the allow-list of mutable profile fields. Keys
// outside this set are ignored rather than merged onto the stored record.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	UserName  *string `json:"userName" validate:"omitempty,min=1"`
	Password  *string `json:"password" validate:"omitempty,max=72"`
}
