package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateFamily = "family created successfully"
	MessageSuccessJoinFamily   = "joined family successfully"
	MessageSuccessGetFamilies  = "families retrieved successfully"
	MessageFailedCreateFamily  = "failed to create family"
	MessageFailedJoinFamily    = "failed to join family"
	MessageFailedGetFamilies   = "failed to retrieve families"

	ErrInviteCodeNotFound = errors.New("invite code not found")
	ErrAlreadyInFamily    = errors.New("already a member of this family")
)

type (
	CreateFamilyRequest struct {
		FamilyName string `json:"familyName" validate:"required"`
		CreatorID  uint   `json:"creatorId" validate:"required"`
	}

	JoinFamilyRequest struct {
		InviteCode string `json:"inviteCode" validate:"required"`
		UserID     uint   `json:"userId" validate:"required"`
	}

	FamilyResponse struct {
		ID         uint      `json:"id"`
		Name       string    `json:"name"`
		InviteCode string    `json:"inviteCode"`
		CreatedBy  uint      `json:"createdBy"`
		CreatedAt  time.Time `json:"createdAt"`
		Role       string    `json:"role,omitempty"`
	}
)
