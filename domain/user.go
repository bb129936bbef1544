package domain

import (
	"errors"
)

var (
	MessageSuccessRegister     = "register success"
	MessageSuccessLogin        = "login success"
	MessageSuccessUpdateUser   = "user updated successfully"
	MessageSuccessUploadAvatar = "avatar uploaded successfully"
	MessageSuccessGetUser      = "user retrieved successfully"
	MessageFailedRegister      = "failed to register"
	MessageFailedLogin         = "failed to login"
	MessageFailedUpdateUser    = "failed to update user"
	MessageFailedUploadAvatar  = "failed to upload avatar"

	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrCredentialsNotMatch  = errors.New("account or password is incorrect")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrAccountRequired      = errors.New("phone or email is required")
	ErrHashPassword         = errors.New("failed to hash password")
)

type (
	RegisterRequest struct {
		Phone    string `json:"phone" validate:"required_without=Email"`
		Email    string `json:"email" validate:"omitempty,email"`
		Password string `json:"password" validate:"required"`
		Nickname string `json:"nickname" validate:"required"`
	}

	LoginRequest struct {
		Account  string `json:"account" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	UpdateUserRequest struct {
		ID          uint   `json:"id" validate:"required"`
		Nickname    string `json:"nickname" validate:"required"`
		Phone       string `json:"phone"`
		Email       string `json:"email" validate:"omitempty,email"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}

	UserResponse struct {
		ID        uint   `json:"id"`
		Nickname  string `json:"nickname"`
		Phone     string `json:"phone,omitempty"`
		Email     string `json:"email,omitempty"`
		AvatarURL string `json:"avatarUrl,omitempty"`
	}

	LoginResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}

	AvatarResponse struct {
		AvatarURL string `json:"avatarUrl"`
	}
)
