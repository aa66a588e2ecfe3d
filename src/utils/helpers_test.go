package utils

import (
	"log"
	"testing"

	"standup/src/models"
	"standup/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueIDs([]uint{3, 1, 3, 2, 1}))
	assert.Equal(t, []uint{7}, UniqueIDs([]uint{7, 7, 7}))
	assert.Empty(t, UniqueIDs([]uint{}))
}

func TestCreateNewTeamDuplicateName(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "teams"`).
		WithArgs("Platform").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	params := &types.CreateTeamRequestBody{
		Name:         "Platform",
		Description:  "Platform engineering",
		ReminderTime: "09:00",
	}
	team, err := CreateNewTeam(gormDB, params, 1)

	assert.Nil(t, team)
	assert.NotNil(t, err)
	assert.Equal(t, "team name already exists", err.Error())
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDeleteMemberCascade(t *testing.T) {
	gormDB, mock := NewMockDB()

	teamId := uint(1)
	user := models.User{ID: 2, Email: "dev@example.com", TeamID: &teamId}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "team_members" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT "id" FROM "standups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "standup_media\w*" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "standups" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := DeleteMember(gormDB, &user)

	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDeleteMemberWithoutStandups(t *testing.T) {
	gormDB, mock := NewMockDB()

	teamId := uint(1)
	user := models.User{ID: 3, Email: "new@example.com", TeamID: &teamId}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "team_members" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT "id" FROM "standups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "standups" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := DeleteMember(gormDB, &user)

	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}
