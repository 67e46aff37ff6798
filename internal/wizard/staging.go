package wizard

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
)

// SlotState is the lifecycle of one asset slot.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotPending
	SlotUploading
	SlotConfirmed
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotPending:
		return "pending"
	case SlotUploading:
		return "uploading"
	case SlotConfirmed:
		return "confirmed"
	case SlotFailed:
		return "failed"
	}
	return "unknown"
}

// slotTransitions lists the legal moves. Clearing to Idle is always legal.
var slotTransitions = map[SlotState][]SlotState{
	SlotIdle:      {SlotPending, SlotUploading, SlotConfirmed, SlotFailed},
	SlotPending:   {SlotPending, SlotUploading, SlotFailed},
	SlotUploading: {SlotUploading, SlotConfirmed, SlotFailed},
	SlotConfirmed: {SlotPending, SlotUploading, SlotConfirmed, SlotFailed},
	SlotFailed:    {SlotPending, SlotUploading, SlotConfirmed, SlotFailed},
}

func canTransition(from, to SlotState) bool {
	if to == SlotIdle {
		return true
	}
	for _, s := range slotTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Preview is the local description of a selected file. It never leaves the
// machine.
type Preview struct {
	Name        string
	Size        int
	ContentType string
}

func newPreview(f domain.File) *Preview {
	head := f.Data
	if len(head) > 512 {
		head = head[:512]
	}
	return &Preview{Name: f.Name, Size: f.Size(), ContentType: http.DetectContentType(head)}
}

// SlotStatus is a snapshot of one slot.
type SlotStatus struct {
	Slot    domain.Slot
	State   SlotState
	Preview *Preview
	Key     string
	Err     error
}

// Uploader sends a file to a course slot and returns the stored key.
type Uploader interface {
	UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error)
}

type slotEntry struct {
	state   SlotState
	preview *Preview
	pending *domain.File
	key     string
	err     error
	seq     uint64
}

// Coordinator stages asset selections until the course has an identifier,
// then uploads them. The latest selection for a slot always wins.
type Coordinator struct {
	mu       sync.Mutex
	uploader Uploader
	logger   *zap.Logger
	slots    []domain.Slot
	entries  map[domain.Slot]*slotEntry
	courseID string
}

// NewCoordinator manages the given slots, defaulting to the course slots.
func NewCoordinator(uploader Uploader, logger *zap.Logger, slots ...domain.Slot) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(slots) == 0 {
		slots = domain.CourseSlots
	}
	c := &Coordinator{uploader: uploader, logger: logger, slots: slots}
	c.resetLocked()
	return c
}

func (c *Coordinator) resetLocked() {
	c.entries = make(map[domain.Slot]*slotEntry, len(c.slots))
	for _, s := range c.slots {
		c.entries[s] = &slotEntry{}
	}
	c.courseID = ""
}

func (c *Coordinator) move(slot domain.Slot, e *slotEntry, to SlotState) {
	if !canTransition(e.state, to) {
		c.logger.Warn("illegal slot transition", zap.String("slot", string(slot)),
			zap.Stringer("from", e.state), zap.Stringer("to", to))
	}
	e.state = to
}

func (c *Coordinator) entry(slot domain.Slot) (*slotEntry, error) {
	e, ok := c.entries[slot]
	if !ok {
		return nil, api.Invalid("slot", fmt.Sprintf("unknown asset slot %q", slot))
	}
	return e, nil
}

// Select records a local preview for file. With a known course identifier
// the file is uploaded immediately; otherwise it replaces any pending
// upload for the slot.
func (c *Coordinator) Select(ctx context.Context, slot domain.Slot, file domain.File) error {
	c.mu.Lock()
	e, err := c.entry(slot)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	e.preview = newPreview(file)
	if c.courseID == "" {
		pending := file
		e.pending = &pending
		e.err = nil
		e.seq++
		c.move(slot, e, SlotPending)
		c.mu.Unlock()
		c.logger.Debug("asset staged", zap.String("slot", string(slot)), zap.String("file", file.Name))
		return nil
	}
	c.mu.Unlock()
	return c.Upload(ctx, slot, file)
}

// Upload sends file for slot. It needs a course identifier; the uploader
// additionally needs a stored credential. A completion that arrives after
// the slot was re-selected or the coordinator was reset is dropped.
func (c *Coordinator) Upload(ctx context.Context, slot domain.Slot, file domain.File) error {
	c.mu.Lock()
	e, err := c.entry(slot)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if c.courseID == "" {
		err := api.Invalid("course_id", "course must be published before uploading assets")
		e.err = err
		c.move(slot, e, SlotFailed)
		c.mu.Unlock()
		return err
	}
	if e.preview == nil {
		e.preview = newPreview(file)
	}
	e.pending = nil
	e.err = nil
	e.seq++
	seq := e.seq
	courseID := c.courseID
	c.move(slot, e, SlotUploading)
	c.mu.Unlock()

	key, upErr := c.uploader.UploadAsset(ctx, courseID, slot, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[slot] != e || e.seq != seq {
		c.logger.Debug("dropping stale upload", zap.String("slot", string(slot)))
		return nil
	}
	if upErr != nil {
		e.err = upErr
		c.move(slot, e, SlotFailed)
		c.logger.Warn("asset upload failed", zap.String("slot", string(slot)), zap.Error(upErr))
		return upErr
	}
	e.key = key
	c.move(slot, e, SlotConfirmed)
	c.logger.Info("asset uploaded", zap.String("slot", string(slot)), zap.String("key", key))
	return nil
}

// OnCourseIdentifierAvailable records id and uploads every pending file
// exactly once, concurrently. Failures are recorded per slot; the returned
// error is the first of them.
func (c *Coordinator) OnCourseIdentifierAvailable(ctx context.Context, id string) error {
	type job struct {
		slot domain.Slot
		file domain.File
	}

	c.mu.Lock()
	c.courseID = id
	var jobs []job
	for _, s := range c.slots {
		e := c.entries[s]
		if e.pending != nil {
			jobs = append(jobs, job{slot: s, file: *e.pending})
			e.pending = nil
		}
	}
	c.mu.Unlock()

	var g errgroup.Group
	for _, j := range jobs {
		g.Go(func() error {
			if err := c.Upload(ctx, j.slot, j.file); err != nil {
				return fmt.Errorf("%s: %w", j.slot.Label(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Preload marks slot as already confirmed with key, for editing a course
// whose assets exist on the server.
func (c *Coordinator) Preload(courseID string, keys map[domain.Slot]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.courseID = courseID
	for slot, key := range keys {
		e, ok := c.entries[slot]
		if !ok || key == "" {
			continue
		}
		e.key = key
		c.move(slot, e, SlotConfirmed)
	}
}

// Clear forgets the selection, pending file and key of slot.
func (c *Coordinator) Clear(slot domain.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[slot]; ok {
		c.entries[slot] = &slotEntry{}
	}
}

// Reset drops every slot and the course identifier. In-flight uploads
// complete into detached entries and are ignored.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Coordinator) Status(slot domain.Slot) SlotStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[slot]
	if !ok {
		return SlotStatus{Slot: slot}
	}
	st := SlotStatus{Slot: slot, State: e.state, Key: e.key, Err: e.err}
	if e.preview != nil {
		p := *e.preview
		st.Preview = &p
	}
	return st
}

// Statuses returns every slot in declaration order.
func (c *Coordinator) Statuses() []SlotStatus {
	out := make([]SlotStatus, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, c.Status(s))
	}
	return out
}

// ConfirmedKey is the last key the server returned for slot, or "".
func (c *Coordinator) ConfirmedKey(slot domain.Slot) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[slot]; ok {
		return e.key
	}
	return ""
}

// Busy reports whether any slot is uploading.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.state == SlotUploading {
			return true
		}
	}
	return false
}

func (c *Coordinator) CourseID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.courseID
}
