package user

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

var userColumns = []string{
	"id", "nickname", "phone", "email", "password", "avatar_url", "status", "created_at", "updated_at", "deleted_at",
}

func TestUserRepository_GetUserByAccount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE (phone = $1 OR email = $2)`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "小王", nil, "a@b.cn", "hash", "", 1, now, now, nil))

	user, err := repo.GetUserByAccount(context.Background(), "a@b.cn")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Nil(t, user.Phone)
	require.NotNil(t, user.Email)
	assert.Equal(t, "a@b.cn", *user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateAvatar(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "avatar_url"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateAvatar(context.Background(), 3, "https://cdn.test/a.png"))
	require.NoError(t, mock.ExpectationsWereMet())
}
