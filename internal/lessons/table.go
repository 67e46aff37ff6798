package lessons

import (
	"context"
	"sync"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
)

// Reader lists and fetches lessons.
type Reader interface {
	ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error)
	GetLesson(ctx context.Context, courseID, lessonKey string) (*domain.Lesson, error)
}

// Table is the lesson list of one course.
type Table struct {
	mu       sync.Mutex
	reader   Reader
	courseID string
	rows     []domain.Lesson
	loaded   bool
}

func NewTable(reader Reader, courseID string) *Table {
	return &Table{reader: reader, courseID: courseID}
}

// Refresh reloads the rows. On failure the previous rows are kept.
func (t *Table) Refresh(ctx context.Context) ([]domain.Lesson, error) {
	if t.courseID == "" {
		return nil, api.Invalid("course_id", "required")
	}
	rows, err := t.reader.ListLessons(ctx, t.courseID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		return append([]domain.Lesson(nil), t.rows...), err
	}
	t.rows = append([]domain.Lesson(nil), rows...)
	t.loaded = true
	return append([]domain.Lesson(nil), rows...), nil
}

func (t *Table) Rows() []domain.Lesson {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Lesson(nil), t.rows...)
}

// Loaded reports whether a Refresh has succeeded.
func (t *Table) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Open fetches the full lesson behind key.
func (t *Table) Open(ctx context.Context, key string) (*domain.Lesson, error) {
	return t.reader.GetLesson(ctx, t.courseID, key)
}
