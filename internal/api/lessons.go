package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/naumanrao/courseadmin/internal/domain"
)

func (c *Client) ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, Invalid("course_id", "required")
	}
	var out struct {
		Data []domain.Lesson `json:"data"`
	}
	if err := c.do(ctx, request{op: "list lessons", method: http.MethodGet, endpoint: coursePath(courseID, "lessons")}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetLesson(ctx context.Context, courseID, lessonKey string) (*domain.Lesson, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(lessonKey) == "" {
		return nil, Invalid("lesson", "course id and lesson key are required")
	}
	var out struct {
		Data domain.Lesson `json:"data"`
	}
	if err := c.do(ctx, request{op: "get lesson", method: http.MethodGet, endpoint: coursePath(courseID, "lessons", lessonKey)}, &out); err != nil {
		return nil, err
	}
	if out.Data.Key == "" {
		out.Data.Key = lessonKey
	}
	return &out.Data, nil
}

// CreateLesson adds one lesson to courseID.
func (c *Client) CreateLesson(ctx context.Context, courseID string, data domain.LessonData) error {
	if strings.TrimSpace(courseID) == "" {
		return Invalid("course_id", "required")
	}
	body, err := jsonBody(map[string]domain.LessonData{"lesson_data": data})
	if err != nil {
		return err
	}
	return c.do(ctx, request{op: "create lesson", method: http.MethodPost, endpoint: coursePath(courseID, "lessons"), body: body}, nil)
}
