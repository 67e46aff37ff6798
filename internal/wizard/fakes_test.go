package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/naumanrao/courseadmin/internal/domain"
)

type uploadCall struct {
	CourseID string
	Slot     domain.Slot
	File     string
}

// fakeUploader returns "<slot>-key" unless a failure or a gate is set for
// the slot. A gate blocks the upload until it is closed.
type fakeUploader struct {
	mu    sync.Mutex
	calls []uploadCall
	fail  map[domain.Slot]error
	gates map[domain.Slot]chan struct{}
	keys  map[domain.Slot]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		fail:  map[domain.Slot]error{},
		gates: map[domain.Slot]chan struct{}{},
		keys:  map[domain.Slot]string{},
	}
}

func (u *fakeUploader) UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, uploadCall{CourseID: courseID, Slot: slot, File: file.Name})
	gate := u.gates[slot]
	err := u.fail[slot]
	key := u.keys[slot]
	u.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	if key == "" {
		key = fmt.Sprintf("%s-key", slot)
	}
	return key, nil
}

func (u *fakeUploader) callsFor(slot domain.Slot) []uploadCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []uploadCall
	for _, c := range u.calls {
		if c.Slot == slot {
			out = append(out, c)
		}
	}
	return out
}

type fakePublisher struct {
	mu        sync.Mutex
	createID  string
	createErr error
	updateErr error
	created   []domain.CourseTemplate
	updated   []domain.CourseTemplate
	updateIDs []string
	gate      chan struct{}
}

func (p *fakePublisher) CreateCourse(ctx context.Context, tmpl domain.CourseTemplate) (string, error) {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, tmpl)
	if p.createErr != nil {
		return "", p.createErr
	}
	return p.createID, nil
}

func (p *fakePublisher) UpdateCourse(ctx context.Context, id string, tmpl domain.CourseTemplate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, tmpl)
	p.updateIDs = append(p.updateIDs, id)
	return p.updateErr
}

type fakeContentTypes struct {
	types []string
	err   error
}

func (f fakeContentTypes) ContentTypes(context.Context) ([]string, error) {
	return f.types, f.err
}
