package family

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"xianshiji/entities"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestFamilyRepository_CreateFamilyInsertsOwnerInSameTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFamilyRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "families"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "user_families"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	family := &entities.Family{Name: "王家", InviteCode: "ABCD1234", CreatedBy: 7, CreatedAt: now}
	owner := &entities.UserFamily{UserID: 7, Role: entities.FamilyRoleOwner, JoinedAt: now}
	require.NoError(t, repo.CreateFamily(context.Background(), family, owner))

	assert.Equal(t, uint(11), family.ID)
	assert.Equal(t, uint(11), owner.FamilyID)
	assert.Equal(t, uint(21), owner.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFamilyRepository_CreateFamilyRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFamilyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "families"`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateFamily(context.Background(), &entities.Family{Name: "x", InviteCode: "X"}, &entities.UserFamily{UserID: 1})
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFamilyRepository_GetFamilyByInviteCodeNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFamilyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "families" WHERE invite_code = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "invite_code", "created_by", "created_at"}))

	_, err := repo.GetFamilyByInviteCode(context.Background(), "ZZZZ0000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
