package family

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"xianshiji/domain"
	"xianshiji/entities"
)

type fakeFamilyRepository struct {
	families map[uint]*entities.Family
	members  []*entities.UserFamily
	nextID   uint
}

func newFakeRepo() *fakeFamilyRepository {
	return &fakeFamilyRepository{families: map[uint]*entities.Family{}, nextID: 1}
}

func (f *fakeFamilyRepository) CreateFamily(_ context.Context, family *entities.Family, owner *entities.UserFamily) error {
	family.ID = f.nextID
	f.nextID++
	f.families[family.ID] = family
	owner.FamilyID = family.ID
	f.members = append(f.members, owner)
	return nil
}

func (f *fakeFamilyRepository) GetFamilyByInviteCode(_ context.Context, inviteCode string) (*entities.Family, error) {
	for _, fam := range f.families {
		if fam.InviteCode == inviteCode {
			return fam, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFamilyRepository) GetMembership(_ context.Context, userID, familyID uint) (*entities.UserFamily, error) {
	for _, m := range f.members {
		if m.UserID == userID && m.FamilyID == familyID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFamilyRepository) AddMember(_ context.Context, member *entities.UserFamily) error {
	f.members = append(f.members, member)
	return nil
}

func (f *fakeFamilyRepository) GetUserFamilies(_ context.Context, userID uint) ([]*entities.UserFamily, error) {
	var out []*entities.UserFamily
	for _, m := range f.members {
		if m.UserID == userID {
			cp := *m
			cp.Family = f.families[m.FamilyID]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestService(repo FamilyRepository) *familyService {
	codes := []string{"ABCD1234", "EFGH5678"}
	return &familyService{
		familyRepository: repo,
		now:              func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) },
		newCode: func() string {
			c := codes[0]
			codes = codes[1:]
			return c
		},
	}
}

func TestGenerateInviteCode(t *testing.T) {
	code := generateInviteCode()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), code)
	assert.NotEqual(t, code, generateInviteCode())
}

func TestFamilyService_CreateFamilyMakesCreatorOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	family, err := svc.CreateFamily(context.Background(), domain.CreateFamilyRequest{FamilyName: " 王家 ", CreatorID: 7})
	require.NoError(t, err)

	assert.Equal(t, "王家", family.Name)
	assert.Equal(t, "ABCD1234", family.InviteCode)
	assert.Equal(t, entities.FamilyRoleOwner, family.Role)
	require.Len(t, repo.members, 1)
	assert.Equal(t, uint(7), repo.members[0].UserID)
	assert.Equal(t, family.ID, repo.members[0].FamilyID)
}

func TestFamilyService_JoinFamily(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CreateFamily(ctx, domain.CreateFamilyRequest{FamilyName: "王家", CreatorID: 7})
	require.NoError(t, err)

	require.NoError(t, svc.JoinFamily(ctx, domain.JoinFamilyRequest{InviteCode: "abcd1234", UserID: 8}))
	assert.ErrorIs(t, svc.JoinFamily(ctx, domain.JoinFamilyRequest{InviteCode: "ABCD1234", UserID: 8}), domain.ErrAlreadyInFamily)
	assert.ErrorIs(t, svc.JoinFamily(ctx, domain.JoinFamilyRequest{InviteCode: "ABCD1234", UserID: 7}), domain.ErrAlreadyInFamily)
	assert.ErrorIs(t, svc.JoinFamily(ctx, domain.JoinFamilyRequest{InviteCode: "NOPE0000", UserID: 9}), domain.ErrInviteCodeNotFound)

	families, err := svc.GetUserFamilies(ctx, 8)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, entities.FamilyRoleMember, families[0].Role)
	assert.Equal(t, "王家", families[0].Name)
}

func TestFamilyService_GetUserFamiliesEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo())

	families, err := svc.GetUserFamilies(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, families)
	assert.Empty(t, families)
}
