package family

import (
	"context"

	"gorm.io/gorm"

	"xianshiji/entities"
)

type (
	FamilyRepository interface {
		CreateFamily(ctx context.Context, family *entities.Family, owner *entities.UserFamily) error
		GetFamilyByInviteCode(ctx context.Context, inviteCode string) (*entities.Family, error)
		GetMembership(ctx context.Context, userID, familyID uint) (*entities.UserFamily, error)
		AddMember(ctx context.Context, member *entities.UserFamily) error
		GetUserFamilies(ctx context.Context, userID uint) ([]*entities.UserFamily, error)
	}

	familyRepository struct {
		db *gorm.DB
	}
)

func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

// CreateFamily inserts the family and its owner membership together.
func (r *familyRepository) CreateFamily(ctx context.Context, family *entities.Family, owner *entities.UserFamily) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(family).Error; err != nil {
			return err
		}
		owner.FamilyID = family.ID
		return tx.Omit("Family").Create(owner).Error
	})
}

func (r *familyRepository) GetFamilyByInviteCode(ctx context.Context, inviteCode string) (*entities.Family, error) {
	var family entities.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", inviteCode).First(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) GetMembership(ctx context.Context, userID, familyID uint) (*entities.UserFamily, error) {
	var member entities.UserFamily
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND family_id = ?", userID, familyID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *familyRepository) AddMember(ctx context.Context, member *entities.UserFamily) error {
	return r.db.WithContext(ctx).Omit("Family").Create(member).Error
}

func (r *familyRepository) GetUserFamilies(ctx context.Context, userID uint) ([]*entities.UserFamily, error) {
	var members []*entities.UserFamily
	if err := r.db.WithContext(ctx).
		Preload("Family").
		Where("user_id = ?", userID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
