package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
)

var pngFile = domain.File{Name: "cover.png", Data: append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)}

func TestSelect_WithoutIDStagesPending(t *testing.T) {
	up := newFakeUploader()
	c := NewCoordinator(up, nil)

	require.NoError(t, c.Select(context.Background(), domain.SlotThumbnail, pngFile))

	st := c.Status(domain.SlotThumbnail)
	assert.Equal(t, SlotPending, st.State)
	require.NotNil(t, st.Preview)
	assert.Equal(t, "cover.png", st.Preview.Name)
	assert.Equal(t, "image/png", st.Preview.ContentType)
	assert.Empty(t, up.callsFor(domain.SlotThumbnail), "nothing is sent before the course exists")
}

func TestOnCourseIdentifierAvailable_UploadsPendingExactlyOnce(t *testing.T) {
	up := newFakeUploader()
	c := NewCoordinator(up, nil)
	ctx := context.Background()

	require.NoError(t, c.Select(ctx, domain.SlotThumbnail, domain.File{Name: "old.png"}))
	require.NoError(t, c.Select(ctx, domain.SlotThumbnail, pngFile))
	require.NoError(t, c.OnCourseIdentifierAvailable(ctx, "abc123"))

	calls := up.callsFor(domain.SlotThumbnail)
	require.Len(t, calls, 1)
	assert.Equal(t, "abc123", calls[0].CourseID)
	assert.Equal(t, "cover.png", calls[0].File, "latest selection wins")

	st := c.Status(domain.SlotThumbnail)
	assert.Equal(t, SlotConfirmed, st.State)
	assert.Equal(t, "thumbnail-key", c.ConfirmedKey(domain.SlotThumbnail))

	require.NoError(t, c.OnCourseIdentifierAvailable(ctx, "abc123"))
	assert.Len(t, up.callsFor(domain.SlotThumbnail), 1, "pending entry is consumed")
	assert.Empty(t, up.callsFor(domain.SlotPreviewVideo))
}

func TestOnCourseIdentifierAvailable_FailureIsPerSlot(t *testing.T) {
	up := newFakeUploader()
	boom := &api.ServerRejection{Op: "upload preview_video", Status: 413, Message: "file too large"}
	up.fail[domain.SlotPreviewVideo] = boom
	c := NewCoordinator(up, nil)
	ctx := context.Background()

	require.NoError(t, c.Select(ctx, domain.SlotThumbnail, pngFile))
	require.NoError(t, c.Select(ctx, domain.SlotPreviewVideo, domain.File{Name: "intro.mp4"}))

	err := c.OnCourseIdentifierAvailable(ctx, "abc123")
	require.ErrorIs(t, err, api.ErrServerRejected)

	assert.Equal(t, SlotConfirmed, c.Status(domain.SlotThumbnail).State)
	video := c.Status(domain.SlotPreviewVideo)
	assert.Equal(t, SlotFailed, video.State)
	assert.ErrorIs(t, video.Err, api.ErrServerRejected)
	assert.Equal(t, "", c.ConfirmedKey(domain.SlotPreviewVideo))
}

func TestSelect_WithIDUploadsImmediately(t *testing.T) {
	up := newFakeUploader()
	up.keys[domain.SlotPreviewVideo] = "v-9"
	c := NewCoordinator(up, nil)
	c.Preload("abc123", nil)

	require.NoError(t, c.Select(context.Background(), domain.SlotPreviewVideo, domain.File{Name: "intro.mp4"}))

	assert.Equal(t, SlotConfirmed, c.Status(domain.SlotPreviewVideo).State)
	assert.Equal(t, "v-9", c.ConfirmedKey(domain.SlotPreviewVideo))
}

func TestUpload_WithoutIDFailsValidation(t *testing.T) {
	up := newFakeUploader()
	c := NewCoordinator(up, nil)

	err := c.Upload(context.Background(), domain.SlotThumbnail, pngFile)

	require.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, SlotFailed, c.Status(domain.SlotThumbnail).State)
	assert.Empty(t, up.calls)
}

func TestUpload_UnknownSlot(t *testing.T) {
	c := NewCoordinator(newFakeUploader(), nil)
	err := c.Select(context.Background(), domain.SlotLessonVideo, pngFile)
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestUpload_StaleCompletionAfterResetIsDropped(t *testing.T) {
	up := newFakeUploader()
	gate := make(chan struct{})
	up.gates[domain.SlotThumbnail] = gate
	c := NewCoordinator(up, nil)
	c.Preload("abc123", nil)

	done := make(chan error, 1)
	go func() { done <- c.Upload(context.Background(), domain.SlotThumbnail, pngFile) }()

	require.Eventually(t, c.Busy, time.Second, time.Millisecond)
	c.Reset()
	assert.False(t, c.Busy())
	close(gate)

	require.NoError(t, <-done)
	st := c.Status(domain.SlotThumbnail)
	assert.Equal(t, SlotIdle, st.State)
	assert.Equal(t, "", st.Key)
}

func TestUpload_StaleCompletionAfterReselectIsDropped(t *testing.T) {
	up := newFakeUploader()
	gate := make(chan struct{})
	up.gates[domain.SlotThumbnail] = gate
	c := NewCoordinator(up, nil)
	c.Preload("abc123", nil)

	first := make(chan error, 1)
	go func() { first <- c.Upload(context.Background(), domain.SlotThumbnail, domain.File{Name: "first.png"}) }()
	require.Eventually(t, c.Busy, time.Second, time.Millisecond)

	up.mu.Lock()
	delete(up.gates, domain.SlotThumbnail)
	up.keys[domain.SlotThumbnail] = "second-key"
	up.mu.Unlock()
	require.NoError(t, c.Upload(context.Background(), domain.SlotThumbnail, domain.File{Name: "second.png"}))

	close(gate)
	require.NoError(t, <-first)

	assert.Equal(t, "second-key", c.ConfirmedKey(domain.SlotThumbnail))
}

func TestClear_ReturnsSlotToIdle(t *testing.T) {
	c := NewCoordinator(newFakeUploader(), nil)
	require.NoError(t, c.Select(context.Background(), domain.SlotThumbnail, pngFile))

	c.Clear(domain.SlotThumbnail)

	st := c.Status(domain.SlotThumbnail)
	assert.Equal(t, SlotIdle, st.State)
	assert.Nil(t, st.Preview)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(SlotIdle, SlotPending))
	assert.True(t, canTransition(SlotPending, SlotUploading))
	assert.True(t, canTransition(SlotUploading, SlotConfirmed))
	assert.True(t, canTransition(SlotFailed, SlotUploading))
	assert.True(t, canTransition(SlotUploading, SlotIdle))
	assert.False(t, canTransition(SlotUploading, SlotPending))
	assert.False(t, canTransition(SlotPending, SlotConfirmed))
}

func TestStatuses_DeclarationOrder(t *testing.T) {
	c := NewCoordinator(newFakeUploader(), nil)
	sts := c.Statuses()
	require.Len(t, sts, 2)
	assert.Equal(t, domain.SlotThumbnail, sts[0].Slot)
	assert.Equal(t, domain.SlotPreviewVideo, sts[1].Slot)
	assert.Equal(t, SlotIdle, sts[0].State)
}
