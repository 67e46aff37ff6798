package app

import (
	"context"
	"time"

	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/session"
)

type AuthUseCase interface {
	Login(ctx context.Context, req session.LoginRequest) (*session.Credential, error)
	Logout(ctx context.Context) error
}

type SessionGuard interface {
	Require(ctx context.Context) (*session.Credential, error)
	Remaining(cred *session.Credential) time.Duration
}

type PreferenceStore interface {
	RememberedLogin(ctx context.Context) (username, password string, ok bool, err error)
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, dark bool) error
}

// CourseCatalog is everything the course list and the wizard send to the
// server.
type CourseCatalog interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	CreateCourse(ctx context.Context, tmpl domain.CourseTemplate) (string, error)
	UpdateCourse(ctx context.Context, courseID string, tmpl domain.CourseTemplate) error
	UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error)
	ContentTypes(ctx context.Context) ([]string, error)
}

type LessonCatalog interface {
	ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error)
	GetLesson(ctx context.Context, courseID, lessonKey string) (*domain.Lesson, error)
	CreateLesson(ctx context.Context, courseID string, data domain.LessonData) error
	UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error)
}
