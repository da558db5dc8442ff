package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type serviceTestEnv struct {
	db          *gorm.DB
	tokens      *token.Service
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	auth        *AuthService
	orgs        *OrganizationService
	projects    *ProjectService
	tasks       *TaskService
}

func setupServiceTestEnv(t *testing.T, suggester TaskSuggester) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db, nil))

	tokens, err := token.NewService(token.Config{
		Secret:     "test-secret",
		Issuer:     "test",
		Expiration: 5 * time.Minute,
	})
	require.NoError(t, err)

	env := &serviceTestEnv{
		db:          db,
		tokens:      tokens,
		userRepo:    repository.NewUserRepository(db),
		orgRepo:     repository.NewOrganizationRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		taskRepo:    repository.NewTaskRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}
	env.auth = NewAuthService(env.userRepo, tokens, nil)
	env.orgs = NewOrganizationService(env.orgRepo)
	env.projects = NewProjectService(env.projectRepo, env.orgs, nil)
	env.tasks = NewTaskService(env.taskRepo, env.projectRepo, env.commentRepo, suggester, nil)

	return env
}

func (e *serviceTestEnv) register(t *testing.T, username, orgName string) (authz.Actor, *models.Organization) {
	t.Helper()

	result, err := e.auth.Register(RegisterInput{
		Username:         username,
		Password:         "pw",
		Email:            username + "@x.com",
		OrganizationName: orgName,
	})
	require.NoError(t, err)
	return authz.ForUser(result.User), result.Organization
}

func (e *serviceTestEnv) createProject(t *testing.T, slug, name string) *models.Project {
	t.Helper()

	project, err := e.projects.CreateProject(CreateProjectInput{
		OrganizationSlug: slug,
		Name:             name,
	})
	require.NoError(t, err)
	return project
}

func (e *serviceTestEnv) createTask(t *testing.T, projectID uint64, title string, status models.TaskStatus) *models.Task {
	t.Helper()

	task, err := e.tasks.CreateTask(projectID, title)
	require.NoError(t, err)
	if status != "" && status != task.Status {
		task.Status = status
		require.NoError(t, e.taskRepo.Update(task))
	}
	return task
}
