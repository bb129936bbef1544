package family

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"xianshiji/domain"
	"xianshiji/entities"
	"xianshiji/internal/utils/logger"
)

type (
	FamilyService interface {
		CreateFamily(ctx context.Context, req domain.CreateFamilyRequest) (domain.FamilyResponse, error)
		JoinFamily(ctx context.Context, req domain.JoinFamilyRequest) error
		GetUserFamilies(ctx context.Context, userID uint) ([]domain.FamilyResponse, error)
	}

	familyService struct {
		familyRepository FamilyRepository
		now              func() time.Time
		newCode          func() string
	}
)

func NewFamilyService(familyRepository FamilyRepository) FamilyService {
	return &familyService{
		familyRepository: familyRepository,
		now:              time.Now,
		newCode:          generateInviteCode,
	}
}

// generateInviteCode returns the first eight characters of a random UUID in upper case.
func generateInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func (s *familyService) CreateFamily(ctx context.Context, req domain.CreateFamilyRequest) (domain.FamilyResponse, error) {
	now := s.now()
	family := &entities.Family{
		Name:       strings.TrimSpace(req.FamilyName),
		InviteCode: s.newCode(),
		CreatedBy:  req.CreatorID,
		CreatedAt:  now,
	}
	owner := &entities.UserFamily{
		UserID:   req.CreatorID,
		Role:     entities.FamilyRoleOwner,
		JoinedAt: now,
	}

	if err := s.familyRepository.CreateFamily(ctx, family, owner); err != nil {
		return domain.FamilyResponse{}, err
	}

	logger.Get().Info("family created", zap.Uint("id", family.ID), zap.Uint("creator", req.CreatorID))
	return toResponse(family, owner.Role), nil
}

func (s *familyService) JoinFamily(ctx context.Context, req domain.JoinFamilyRequest) error {
	family, err := s.familyRepository.GetFamilyByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(req.InviteCode)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInviteCodeNotFound
		}
		return err
	}

	_, err = s.familyRepository.GetMembership(ctx, req.UserID, family.ID)
	if err == nil {
		return domain.ErrAlreadyInFamily
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.familyRepository.AddMember(ctx, &entities.UserFamily{
		UserID:   req.UserID,
		FamilyID: family.ID,
		Role:     entities.FamilyRoleMember,
		JoinedAt: s.now(),
	})
}

func (s *familyService) GetUserFamilies(ctx context.Context, userID uint) ([]domain.FamilyResponse, error) {
	members, err := s.familyRepository.GetUserFamilies(ctx, userID)
	if err != nil {
		return nil, err
	}

	families := make([]domain.FamilyResponse, 0, len(members))
	for _, m := range members {
		if m.Family == nil {
			continue
		}
		families = append(families, toResponse(m.Family, m.Role))
	}
	return families, nil
}

func toResponse(family *entities.Family, role string) domain.FamilyResponse {
	return domain.FamilyResponse{
		ID:         family.ID,
		Name:       family.Name,
		InviteCode: family.InviteCode,
		CreatedBy:  family.CreatedBy,
		CreatedAt:  family.CreatedAt,
		Role:       role,
	}
}
