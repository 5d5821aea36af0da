package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskflow.dev/taskflow/internal/blob"
	model "taskflow.dev/taskflow/internal/models"
	repository "taskflow.dev/taskflow/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Tag{},
		&model.Comment{},
		&model.Attachment{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memorySink records published notifications and can simulate sink failure.
type memorySink struct {
	published []*model.Notification
	failWith  error
}

func (s *memorySink) Publish(ctx context.Context, n *model.Notification) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.published = append(s.published, n)
	return nil
}

type testEnv struct {
	db               *gorm.DB
	store            *blob.DiskStore
	sink             *memorySink
	projectRepo      *repository.ProjectRepository
	taskRepo         *repository.TaskRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	projects         *ProjectService
	tasks            *TaskService
	users            *UserService
	notifications    *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	store, err := blob.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	log := quietLogger()
	sink := &memorySink{}

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifications := NewNotificationService(notificationRepo, sink, log)

	return &testEnv{
		db:               db,
		store:            store,
		sink:             sink,
		projectRepo:      projectRepo,
		taskRepo:         taskRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		projects:         NewProjectService(projectRepo, taskRepo, userRepo, store, log),
		tasks:            NewTaskService(taskRepo, projectRepo, store, notifications, log),
		users:            NewUserService(userRepo, store, log),
		notifications:    notifications,
	}
}

func (e *testEnv) seedUser(t *testing.T, id uint, username string) {
	t.Helper()
	user := model.User{ID: id, Username: username, CreatedAt: time.Now().UTC()}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

// seedProject creates a project with the given creator as admin.
func (e *testEnv) seedProject(t *testing.T, creatorID uint, title string) *model.Project {
	t.Helper()
	project, err := e.projects.CreateProject(context.Background(), creatorID, title, "test project")
	if err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return project
}
