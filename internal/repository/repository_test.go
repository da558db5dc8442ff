package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db, nil))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	return db, mock
}

func TestUserRepository_CreateWithOrganization_CreatesThenJoins(t *testing.T) {
	db := setupSQLiteDB(t)
	users := NewUserRepository(db)
	orgs := NewOrganizationRepository(db)

	alice := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "hashed"}
	org, err := users.CreateWithOrganization(alice, "Acme", "acme")
	require.NoError(t, err)
	require.NotZero(t, alice.ID)
	require.Equal(t, "acme", org.Slug)
	require.NotNil(t, org.OwnerID)
	require.Equal(t, alice.ID, *org.OwnerID)

	bob := &models.User{Username: "bob", Email: "b@x.com", PasswordHash: "hashed"}
	joined, err := users.CreateWithOrganization(bob, "ACME", "acme")
	require.NoError(t, err)
	require.Equal(t, org.ID, joined.ID)
	require.Equal(t, "Acme", joined.Name)
	require.Equal(t, alice.ID, *joined.OwnerID)

	members, err := orgs.ListMembers(org.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, models.RoleOwner, members[0].Role)
	require.Equal(t, "alice", members[0].User.Username)
	require.Equal(t, models.RoleMember, members[1].Role)

	all, err := orgs.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUserRepository_CreateWithOrganization_DuplicateUsername(t *testing.T) {
	db := setupSQLiteDB(t)
	users := NewUserRepository(db)

	_, err := users.CreateWithOrganization(&models.User{Username: "alice", PasswordHash: "h"}, "Acme", "acme")
	require.NoError(t, err)

	_, err = users.CreateWithOrganization(&models.User{Username: "alice", PasswordHash: "h"}, "Other", "other")
	require.ErrorIs(t, err, ErrCreateUser)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// the failed transaction must not leave the second organization behind
	_, err = NewOrganizationRepository(db).FindBySlug("other")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_CreateWithOrganization_SlugConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	users := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "organizations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "organizations"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := users.CreateWithOrganization(&models.User{Username: "carol", PasswordHash: "h"}, "Acme", "acme")
	require.ErrorIs(t, err, ErrCreateOrganization)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepository_FindBySlug_Faults(t *testing.T) {
	db, mock := setupMockDB(t)
	orgs := NewOrganizationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "organizations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))
	_, err := orgs.FindBySlug("missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	connErr := errors.New("connection reset by peer")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "organizations"`)).
		WillReturnError(connErr)
	_, err = orgs.FindBySlug("acme")
	require.ErrorIs(t, err, connErr)
	require.NotErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepository_FirstForMember_EarliestJoined(t *testing.T) {
	db := setupSQLiteDB(t)
	orgs := NewOrganizationRepository(db)

	user := &models.User{Username: "dave", PasswordHash: "h"}
	require.NoError(t, db.Create(user).Error)

	first := &models.Organization{Slug: "first", Name: "First"}
	second := &models.Organization{Slug: "second", Name: "Second"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.OrganizationMember{OrganizationID: second.ID, UserID: user.ID, Role: models.RoleMember, JoinedAt: now}).Error)
	require.NoError(t, db.Create(&models.OrganizationMember{OrganizationID: first.ID, UserID: user.ID, Role: models.RoleMember, JoinedAt: now.Add(time.Hour)}).Error)

	org, err := orgs.FirstForMember(user.ID)
	require.NoError(t, err)
	require.Equal(t, "second", org.Slug)

	_, err = orgs.FirstForMember(user.ID + 100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepository_CountTasksAndUpdateStatus(t *testing.T) {
	db := setupSQLiteDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)

	org := &models.Organization{Slug: "acme", Name: "Acme"}
	require.NoError(t, db.Create(org).Error)

	project := &models.Project{OrganizationID: org.ID, Name: "Launch"}
	require.NoError(t, projects.Create(project))

	total, done, err := projects.CountTasks(project.ID, models.TaskStatusDone)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Zero(t, done)

	for _, status := range []models.TaskStatus{models.TaskStatusDone, models.TaskStatusDone, models.TaskStatusTodo} {
		require.NoError(t, tasks.Create(&models.Task{ProjectID: project.ID, Title: "t", Status: status}))
	}

	total, done, err = projects.CountTasks(project.ID, models.TaskStatusDone)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, int64(2), done)

	require.NoError(t, projects.UpdateStatus(project, "archived"))
	reloaded, err := projects.FindByID(project.ID, "Organization")
	require.NoError(t, err)
	require.Equal(t, "archived", reloaded.Status)
	require.Equal(t, "acme", reloaded.Organization.Slug)

	listed, err := projects.ListByOrganization(org.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestTaskRepository_ListByProject_Paginates(t *testing.T) {
	db := setupSQLiteDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)

	org := &models.Organization{Slug: "acme", Name: "Acme"}
	require.NoError(t, db.Create(org).Error)
	project := &models.Project{OrganizationID: org.ID, Name: "Launch"}
	require.NoError(t, projects.Create(project))

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tasks.Create(&models.Task{ProjectID: project.ID, Title: "no due date"}))
	require.NoError(t, tasks.Create(&models.Task{ProjectID: project.ID, Title: "due", DueDate: &due}))
	require.NoError(t, tasks.Create(&models.Task{ProjectID: project.ID, Title: "third"}))

	page, total, err := tasks.ListByProject(project.ID, utils.NewPaginationParams(1, 2))
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	require.Equal(t, "due", page[0].Title)

	page, _, err = tasks.ListByProject(project.ID, utils.NewPaginationParams(2, 2))
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "third", page[0].Title)
}

func TestCommentRepository_ListByTask(t *testing.T) {
	db := setupSQLiteDB(t)
	comments := NewCommentRepository(db)

	author := &models.User{Username: "erin", PasswordHash: "h"}
	require.NoError(t, db.Create(author).Error)
	org := &models.Organization{Slug: "acme", Name: "Acme"}
	require.NoError(t, db.Create(org).Error)
	project := &models.Project{OrganizationID: org.ID, Name: "Launch"}
	require.NoError(t, db.Create(project).Error)
	task := &models.Task{ProjectID: project.ID, Title: "Write docs"}
	require.NoError(t, db.Create(task).Error)

	require.NoError(t, comments.Create(&models.TaskComment{TaskID: task.ID, AuthorID: author.ID, Content: "first"}))
	require.NoError(t, comments.Create(&models.TaskComment{TaskID: task.ID, AuthorID: author.ID, Content: "second"}))

	listed, err := comments.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "first", listed[0].Content)
	require.Equal(t, "erin", listed[0].Author.Username)
}
