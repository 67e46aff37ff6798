package testutil

import (
	"github.com/google/uuid"

	"github.com/naumanrao/courseadmin/internal/domain"
)

type CourseOption func(*domain.Course)

func WithCourseID(id string) CourseOption {
	return func(c *domain.Course) { c.ID = id }
}

func WithPrice(p float64) CourseOption {
	return func(c *domain.Course) { c.Price = domain.Price(p) }
}

func WithAssets(thumbnail, video string) CourseOption {
	return func(c *domain.Course) {
		c.Thumbnail = thumbnail
		c.PreviewVideo = video
	}
}

func WithObjectives(items ...string) CourseOption {
	return func(c *domain.Course) {
		texts := make([]domain.LocalizedText, len(items))
		for i, item := range items {
			texts[i] = domain.LocalizedText{En: item, ZhCN: item, ZhTW: item}
		}
		c.FullDetails.Content = append(c.FullDetails.Content, domain.NewListBlock(texts))
	}
}

func WithReview(name string, rating int, comment string) CourseOption {
	return func(c *domain.Course) {
		if c.FullDetails.Reviews == nil {
			c.FullDetails.Reviews = map[string]domain.ReviewEntry{}
		}
		key := domain.ReviewKey(len(c.FullDetails.Reviews))
		c.FullDetails.Reviews[key] = domain.ReviewEntry{
			Name:    name,
			Rating:  rating,
			Comment: domain.LocalizedText{En: comment, ZhCN: comment, ZhTW: comment},
		}
	}
}

// NewTestCourse returns a listed course with an English description block.
func NewTestCourse(title string, opts ...CourseOption) domain.Course {
	c := domain.Course{
		ID: uuid.NewString(),
		CourseTemplate: domain.CourseTemplate{
			Title:    domain.LocalizedText{En: title, ZhCN: title, ZhTW: title},
			Subtitle: domain.LocalizedText{En: title + " subtitle"},
			FullDetails: domain.FullDetails{
				Content: []domain.ContentBlock{
					domain.NewTextBlock("p", domain.LocalizedText{En: title + " description"}),
				},
				Tags: map[domain.Locale][]string{},
			},
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type LessonOption func(*domain.Lesson)

func WithFree() LessonOption {
	return func(l *domain.Lesson) { l.Data.IsFree = true }
}

func WithDuration(d string) LessonOption {
	return func(l *domain.Lesson) { l.Data.VideoDuration = d }
}

// NewTestLesson returns a lesson under courseID with English title and content.
func NewTestLesson(courseID, title string, opts ...LessonOption) domain.Lesson {
	l := domain.Lesson{
		Key:      uuid.NewString(),
		CourseID: courseID,
		Data: domain.LessonData{
			Title:   domain.LocalizedText{En: title},
			Content: domain.LocalizedText{En: title + " content"},
		},
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
