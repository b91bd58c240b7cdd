package domain

import "errors"

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessRefresh       = "token refreshed successfully"
	MessageSuccessGetMe         = "profile retrieved successfully"
	MessageSuccessResetRequest  = "password reset request accepted"
	MessageSuccessResetPassword = "password reset completed"
	MessageSuccessCheckin       = "daily check-in completed"
	MessageSuccessEventStatus   = "event status retrieved successfully"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedRefresh       = "failed to refresh token"
	MessageFailedGetMe         = "failed to retrieve profile"
	MessageFailedResetRequest  = "failed to request password reset"
	MessageFailedResetPassword = "failed to reset password"
	MessageFailedCheckin       = "failed to check in"
	MessageFailedEventStatus   = "failed to retrieve event status"

	ErrEmailAlreadyUsed   = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotActive      = errors.New("account is not active")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrInvalidResetToken  = errors.New("invalid reset token")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Nickname string `json:"nickname,omitempty"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	TokenResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token,omitempty"`
	}

	RefreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	Profile struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Nickname string `json:"nickname,omitempty"`
		Role     string `json:"role"`
	}

	CheckinResult struct {
		OK            bool `json:"ok"`
		TicketGranted int  `json:"ticket_granted"`
	}

	EventStatus struct {
		Date      string `json:"date"`
		CheckedIn bool   `json:"checked_in"`
	}
)
