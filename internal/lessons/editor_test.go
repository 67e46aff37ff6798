package lessons_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/config"
	"github.com/naumanrao/courseadmin/internal/devapi"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/lessons"
	"github.com/naumanrao/courseadmin/internal/testutil"
)

const lessonsPath = "/admin/api/courses/c1/lessons"

func setup(t *testing.T) (*devapi.Server, *api.Client) {
	t.Helper()
	srv := devapi.New()
	srv.SeedCourse(testutil.NewTestCourse("Go", testutil.WithCourseID("c1")))
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = hs.URL
	client, err := api.NewClient(cfg, api.StaticToken(srv.IssueToken("admin")), nil)
	require.NoError(t, err)
	return srv, client
}

func fill(t *testing.T, e *lessons.Editor, i int, title string) {
	t.Helper()
	require.NoError(t, e.SetText(i, lessons.FieldTitle, domain.LocaleEN, title))
	require.NoError(t, e.SetText(i, lessons.FieldContent, domain.LocaleEN, title+" body"))
}

func TestSave_PostsEachDraftInOrder(t *testing.T) {
	srv, client := setup(t)
	e := lessons.NewEditor(client, "c1", nil)

	fill(t, e, e.Add(), "Intro")
	i := e.Add()
	fill(t, e, i, "Types")
	require.NoError(t, e.SetText(i, lessons.FieldTitle, domain.LocaleZhTW, "型別"))
	require.NoError(t, e.SetDuration(i, " 12:30 "))
	require.NoError(t, e.SetFree(i, true))

	n, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, e.Drafts())

	stored := srv.Lessons("c1")
	require.Len(t, stored, 2)
	assert.Equal(t, "Intro", stored[0].Data.Title.En)
	assert.Equal(t, "型別", stored[1].Data.Title.ZhTW)
	assert.Equal(t, "", stored[1].Data.Title.ZhCN, "lessons are sent as typed")
	assert.Equal(t, "12:30", stored[1].Data.VideoDuration)
	assert.True(t, stored[1].Data.IsFree)
}

func TestSave_MissingEnglishTitleSendsNothing(t *testing.T) {
	srv, client := setup(t)
	e := lessons.NewEditor(client, "c1", nil)

	fill(t, e, e.Add(), "Intro")
	i := e.Add()
	require.NoError(t, e.SetText(i, lessons.FieldContent, domain.LocaleEN, "body only"))

	n, err := e.Save(context.Background())

	require.ErrorIs(t, err, api.ErrValidation)
	assert.Contains(t, err.Error(), "lesson 2 title")
	assert.Zero(t, n)
	assert.Empty(t, srv.RequestsTo(http.MethodPost, lessonsPath))
	assert.Len(t, e.Drafts(), 2)
}

func TestSave_MissingContentIsValidation(t *testing.T) {
	_, client := setup(t)
	e := lessons.NewEditor(client, "c1", nil)
	i := e.Add()
	require.NoError(t, e.SetText(i, lessons.FieldTitle, domain.LocaleEN, "Intro"))

	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestSave_StopsAtFirstFailure(t *testing.T) {
	srv, client := setup(t)
	e := lessons.NewEditor(client, "c1", nil)
	for _, title := range []string{"One", "Two", "Three"} {
		fill(t, e, e.Add(), title)
	}
	srv.FailNext(devapi.OpCreateLesson, http.StatusInternalServerError, "")

	n, err := e.Save(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "saved 0 of 3 lessons")
	assert.Len(t, e.Drafts(), 3)

	n, err = e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, srv.Lessons("c1"), 3)
}

func TestSave_PartialFailureDropsSavedDrafts(t *testing.T) {
	_, client := setup(t)
	flaky := &failingClient{Client: client, failOn: 2}
	e := lessons.NewEditor(flaky, "c1", nil)
	for _, title := range []string{"One", "Two", "Three"} {
		fill(t, e, e.Add(), title)
	}

	n, err := e.Save(context.Background())

	require.ErrorIs(t, err, api.ErrNetwork)
	assert.Equal(t, 1, n)
	drafts := e.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "Two", drafts[0].Data.Title.En)
}

func TestSave_RequiresCourseAndDrafts(t *testing.T) {
	_, client := setup(t)

	_, err := lessons.NewEditor(client, "", nil).Save(context.Background())
	assert.ErrorIs(t, err, api.ErrValidation)

	_, err = lessons.NewEditor(client, "c1", nil).Save(context.Background())
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestAttachVideo(t *testing.T) {
	srv, client := setup(t)
	srv.SetUploadKey(domain.SlotLessonVideo, "vid-9")
	e := lessons.NewEditor(client, "c1", nil)
	i := e.Add()
	fill(t, e, i, "Intro")

	require.NoError(t, e.AttachVideo(context.Background(), i, domain.File{Name: "intro.mp4", Data: []byte("mp4")}))

	d := e.Drafts()[0]
	assert.Equal(t, "courses/c1/lessons/vid-9", d.Data.VideoURL)
	assert.Equal(t, "intro.mp4", d.VideoFile)

	reqs := srv.RequestsTo(http.MethodPost, "/admin/api/courses/c1/upload-assets")
	require.Len(t, reqs, 1)
	assert.Equal(t, "lessons", reqs[0].Field)

	_, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "courses/c1/lessons/vid-9", srv.Lessons("c1")[0].Data.VideoURL)
}

func TestAttachVideo_RequiresCourseID(t *testing.T) {
	_, client := setup(t)
	e := lessons.NewEditor(client, "", nil)
	i := e.Add()

	err := e.AttachVideo(context.Background(), i, domain.File{Name: "a.mp4"})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestEditOutOfRange(t *testing.T) {
	e := lessons.NewEditor(nil, "c1", nil)

	assert.ErrorIs(t, e.SetFree(0, true), api.ErrValidation)
	assert.False(t, e.Remove(0))

	e.Add()
	e.Add()
	assert.True(t, e.Remove(0))
	assert.Len(t, e.Drafts(), 1)
}

type failingClient struct {
	*api.Client
	calls  int
	failOn int
}

func (c *failingClient) CreateLesson(ctx context.Context, courseID string, data domain.LessonData) error {
	c.calls++
	if c.calls == c.failOn {
		return &api.NetworkError{Op: "create lesson", Status: http.StatusBadGateway}
	}
	return c.Client.CreateLesson(ctx, courseID, data)
}
