// Package lessons edits and lists the lessons of one published course.
package lessons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
)

// ErrBusy is returned while a save or a video upload is in flight.
var ErrBusy = errors.New("lesson editor is busy")

// Field selects a localized lesson field.
type Field int

const (
	FieldTitle Field = iota
	FieldContent
)

func (f Field) String() string {
	if f == FieldContent {
		return "content"
	}
	return "title"
}

// Draft is an unsaved lesson. ID is local only.
type Draft struct {
	ID        string
	Data      domain.LessonData
	VideoFile string
}

// Client is the slice of the API the editor needs.
type Client interface {
	CreateLesson(ctx context.Context, courseID string, data domain.LessonData) error
	UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error)
}

// Editor holds lesson drafts for one course.
type Editor struct {
	mu       sync.Mutex
	client   Client
	logger   *zap.Logger
	courseID string
	drafts   []Draft
	busy     bool
}

func NewEditor(client Client, courseID string, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{client: client, courseID: courseID, logger: logger}
}

func (e *Editor) CourseID() string { return e.courseID }

// Add appends an empty draft and returns its index.
func (e *Editor) Add() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts = append(e.drafts, Draft{ID: uuid.NewString()})
	return len(e.drafts) - 1
}

func (e *Editor) Remove(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.drafts) {
		return false
	}
	e.drafts = append(e.drafts[:i:i], e.drafts[i+1:]...)
	return true
}

// Drafts returns a copy of the current drafts.
func (e *Editor) Drafts() []Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Draft(nil), e.drafts...)
}

func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

func (e *Editor) SetText(i int, field Field, loc domain.Locale, v string) error {
	return e.edit(i, func(d *Draft) {
		if field == FieldContent {
			d.Data.Content.Set(loc, v)
			return
		}
		d.Data.Title.Set(loc, v)
	})
}

func (e *Editor) SetDuration(i int, duration string) error {
	return e.edit(i, func(d *Draft) { d.Data.VideoDuration = strings.TrimSpace(duration) })
}

func (e *Editor) SetFree(i int, free bool) error {
	return e.edit(i, func(d *Draft) { d.Data.IsFree = free })
}

func (e *Editor) edit(i int, fn func(*Draft)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.drafts) {
		return api.Invalid("lesson", fmt.Sprintf("no lesson %d", i+1))
	}
	fn(&e.drafts[i])
	return nil
}

// AttachVideo uploads file as the video of draft i. The draft is matched by
// ID afterwards so removals during the upload are harmless.
func (e *Editor) AttachVideo(ctx context.Context, i int, file domain.File) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.courseID == "" {
		e.mu.Unlock()
		return api.Invalid("course_id", "course id is required to upload video")
	}
	if i < 0 || i >= len(e.drafts) {
		e.mu.Unlock()
		return api.Invalid("lesson", fmt.Sprintf("no lesson %d", i+1))
	}
	id := e.drafts[i].ID
	e.busy = true
	e.mu.Unlock()

	key, err := e.client.UploadAsset(ctx, e.courseID, domain.SlotLessonVideo, file)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil {
		e.logger.Warn("lesson video upload failed", zap.String("course_id", e.courseID), zap.Error(err))
		return fmt.Errorf("uploading lesson video: %w", err)
	}
	for j := range e.drafts {
		if e.drafts[j].ID == id {
			e.drafts[j].Data.VideoURL = domain.LessonVideoURL(e.courseID, key)
			e.drafts[j].VideoFile = file.Name
		}
	}
	return nil
}

// Validate checks every draft without sending anything.
func (e *Editor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return validate(e.drafts)
}

func validate(drafts []Draft) error {
	for i, d := range drafts {
		if strings.TrimSpace(d.Data.Title.En) == "" {
			return api.Invalid(fmt.Sprintf("lesson %d title", i+1), "English title is required")
		}
		if strings.TrimSpace(d.Data.Content.En) == "" {
			return api.Invalid(fmt.Sprintf("lesson %d content", i+1), "English content is required")
		}
	}
	return nil
}

// Save posts every draft in order and returns how many were created. The
// first failure stops the run; saved drafts are dropped so a retry does not
// duplicate them.
func (e *Editor) Save(ctx context.Context) (int, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return 0, ErrBusy
	}
	if e.courseID == "" {
		e.mu.Unlock()
		return 0, api.Invalid("course_id", "course id is required to save lessons")
	}
	if len(e.drafts) == 0 {
		e.mu.Unlock()
		return 0, api.Invalid("lessons", "add at least one lesson")
	}
	if err := validate(e.drafts); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	pending := append([]Draft(nil), e.drafts...)
	e.busy = true
	e.mu.Unlock()

	saved := 0
	var saveErr error
	for _, d := range pending {
		if err := e.client.CreateLesson(ctx, e.courseID, d.Data); err != nil {
			saveErr = fmt.Errorf("saved %d of %d lessons: %w", saved, len(pending), err)
			break
		}
		saved++
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	done := make(map[string]bool, saved)
	for _, d := range pending[:saved] {
		done[d.ID] = true
	}
	kept := e.drafts[:0]
	for _, d := range e.drafts {
		if !done[d.ID] {
			kept = append(kept, d)
		}
	}
	e.drafts = kept

	if saveErr != nil {
		e.logger.Warn("saving lessons failed", zap.String("course_id", e.courseID), zap.Int("saved", saved), zap.Error(saveErr))
		return saved, saveErr
	}
	e.logger.Info("lessons saved", zap.String("course_id", e.courseID), zap.Int("count", saved))
	return saved, nil
}
