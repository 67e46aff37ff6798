package domain

import "fmt"

// Lesson is a lesson record under a course.
type Lesson struct {
	Key      string     `json:"lesson_key"`
	CourseID string     `json:"course_id,omitempty"`
	Data     LessonData `json:"lesson_data"`
}

// LessonData is the editable body of a lesson.
type LessonData struct {
	Title         LocalizedText `json:"title"`
	Content       LocalizedText `json:"content"`
	VideoDuration string        `json:"video_duration"`
	VideoURL      string        `json:"video_url"`
	IsFree        bool          `json:"is_free"`
}

// LessonVideoURL is the storage path a lesson video key resolves to.
func LessonVideoURL(courseID, key string) string {
	return fmt.Sprintf("courses/%s/lessons/%s", courseID, key)
}
