package entities

import "time"

const (
	FamilyRoleOwner  = "OWNER"
	FamilyRoleMember = "MEMBER"
)

type Family struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	InviteCode string    `gorm:"size:16;uniqueIndex;not null" json:"inviteCode"`
	CreatedBy  uint      `gorm:"index" json:"createdBy"`
	CreatedAt  time.Time `gorm:"type:timestamp" json:"createdAt"`
}

type UserFamily struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"uniqueIndex:idx_user_family;not null" json:"userId"`
	FamilyID uint      `gorm:"uniqueIndex:idx_user_family;not null" json:"familyId"`
	Role     string    `gorm:"size:16;not null" json:"role"`
	JoinedAt time.Time `gorm:"type:timestamp" json:"joinedAt"`

	Family *Family `gorm:"foreignKey:FamilyID" json:"-"`
}
