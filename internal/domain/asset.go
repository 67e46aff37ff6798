package domain

// Slot names an upload target on a course. The multipart field name is the
// slot name itself.
type Slot string

const (
	SlotThumbnail    Slot = "thumbnail"
	SlotPreviewVideo Slot = "preview_video"
	SlotLessonVideo  Slot = "lessons"
)

// CourseSlots are the slots the course wizard stages.
var CourseSlots = []Slot{SlotThumbnail, SlotPreviewVideo}

// KeyField is the response field carrying the stored object key.
func (s Slot) KeyField() string {
	return string(s) + "_key"
}

func (s Slot) Label() string {
	switch s {
	case SlotThumbnail:
		return "Thumbnail"
	case SlotPreviewVideo:
		return "Preview video"
	case SlotLessonVideo:
		return "Lesson video"
	}
	return string(s)
}

// File is a locally selected file held in memory until it is uploaded.
type File struct {
	Name string
	Data []byte
}

func (f File) Size() int { return len(f.Data) }
