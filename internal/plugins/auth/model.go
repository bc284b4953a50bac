// Package auth handles accounts, sessions, password resets, and two-factor
// login for DevPalette. Users live in MariaDB; sessions, reset codes, login
// challenges, and pending two-factor setups live in Redis.
//
// This is a CORE plugin: every collection route depends on its middleware.
package auth

import (
	"time"
)

// User is a registered account. PasswordHash and TwoFactorSecret never leave
// the server.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	PasswordHash     string     `json:"-"`
	ProfileImage     *string    `json:"profileImage,omitempty"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	TwoFactorSecret  *string    `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest creates an account and signs it in.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TwoFactorLoginRequest completes a login that returned a challenge.
type TwoFactorLoginRequest struct {
	Challenge string `json:"challenge" validate:"required"`
	Code      string `json:"code" validate:"required,max=16"`
}

// ForgotPasswordRequest asks for a reset code by email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password with an emailed code.
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UpdateAccountRequest edits the profile. A nil field is left unchanged; an
// empty profileImage removes the picture.
type UpdateAccountRequest struct {
	Name         *string `json:"name" validate:"omitnil,min=2,max=100"`
	ProfileImage *string `json:"profileImage"`
}

// TwoFactorCodeRequest carries an authenticator code.
type TwoFactorCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput is the validated input for completing a password reset.
type ResetPasswordInput struct {
	Email    string
	Code     string
	Password string
}

// UpdateAccountInput is the validated profile edit.
type UpdateAccountInput struct {
	Name         *string
	ProfileImage *string
}

// --- Results ---

// LoginResult is either a started session (Token set) or a pending
// two-factor challenge (RequiresTwoFactor set).
type LoginResult struct {
	Token             string `json:"token,omitempty"`
	User              *User  `json:"user,omitempty"`
	RequiresTwoFactor bool   `json:"requiresTwoFactor,omitempty"`
	Challenge         string `json:"challenge,omitempty"`
}

// TwoFactorSetup is shown once when the user starts enabling two-factor
// login. BackupCodes are only ever returned here.
type TwoFactorSetup struct {
	Secret      string   `json:"secret"`
	OTPAuthURL  string   `json:"otpauthUrl"`
	BackupCodes []string `json:"backupCodes"`
}

// --- Redis values ---

// Session is an authenticated session stored in Redis under its token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// loginChallenge is a password-verified login waiting for its second factor.
type loginChallenge struct {
	UserID   string `json:"user_id"`
	Attempts int    `json:"attempts"`
}

// resetCode is a pending password reset. Only the SHA-256 of the code is kept.
type resetCode struct {
	UserID   string `json:"user_id"`
	CodeHash string `json:"code_hash"`
	Attempts int    `json:"attempts"`
}
