package devapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/config"
	"github.com/naumanrao/courseadmin/internal/devapi"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/testutil"
)

func setup(t *testing.T) (*devapi.Server, *api.Client) {
	t.Helper()
	srv := devapi.New(devapi.WithUser("admin", "secret", domain.User{Name: "Jacob"}))
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = hs.URL
	client, err := api.NewClient(cfg, api.StaticToken(srv.IssueToken("admin")), nil)
	require.NoError(t, err)
	return srv, client
}

func TestLogin(t *testing.T) {
	srv := devapi.New(devapi.WithUser("admin", "secret", domain.User{Name: "Jacob", Role: "admin"}))
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = hs.URL
	client, err := api.NewClient(cfg, nil, nil)
	require.NoError(t, err)

	res, err := client.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Jacob", res.User.Name)
	assert.Equal(t, "admin", res.User.Username)

	_, err = client.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
}

func TestRequiresBearerToken(t *testing.T) {
	srv := devapi.New()
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	resp, err := http.Get(hs.URL + "/admin/api/courses")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	srv, client := setup(t)
	srv.RevokeTokens()

	_, err := client.ListCourses(context.Background())
	var rej *api.ServerRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusUnauthorized, rej.Status)
}

func TestCreateUpdateAndList(t *testing.T) {
	srv, client := setup(t)
	srv.NextCourseIDs("abc123")
	ctx := context.Background()

	tmpl := testutil.NewTestCourse("Go").CourseTemplate
	id, err := client.CreateCourse(ctx, tmpl)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	tmpl.Thumbnail = "k1"
	require.NoError(t, client.UpdateCourse(ctx, id, tmpl))

	courses, err := client.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "abc123", courses[0].ID)
	assert.Equal(t, "k1", courses[0].Thumbnail)

	reqs := srv.RequestsTo(http.MethodPut, "/admin/api/courses/abc123")
	require.Len(t, reqs, 1)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Contains(t, body, "course_template")
}

func TestUpdateUnknownCourse(t *testing.T) {
	_, client := setup(t)

	err := client.UpdateCourse(context.Background(), "missing", domain.CourseTemplate{})
	assert.ErrorIs(t, err, api.ErrServerRejected)
	assert.Equal(t, "Course not found", api.Message(err))
}

func TestUpload(t *testing.T) {
	srv, client := setup(t)
	id := srv.SeedCourse(testutil.NewTestCourse("Go", testutil.WithCourseID("c1")))
	srv.SetUploadKey(domain.SlotThumbnail, "k1")
	ctx := context.Background()

	key, err := client.UploadAsset(ctx, id, domain.SlotThumbnail, domain.File{Name: "/tmp/cover.png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "k1", key)
	data, ok := srv.Upload("k1")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), data)

	key, err = client.UploadAsset(ctx, id, domain.SlotPreviewVideo, domain.File{Name: "intro.mp4", Data: []byte("mp4")})
	require.NoError(t, err)
	assert.Equal(t, "courses/c1/preview_video/intro.mp4", key)

	reqs := srv.RequestsTo(http.MethodPost, "/admin/api/courses/c1/upload-assets")
	require.Len(t, reqs, 2)
	assert.Equal(t, "thumbnail", reqs[0].Field)
	assert.Equal(t, "cover.png", reqs[0].File)
	assert.Empty(t, reqs[0].Body)
}

func TestFailNext(t *testing.T) {
	srv, client := setup(t)
	srv.FailNext(devapi.OpCreateCourse, http.StatusInternalServerError, "db down")
	srv.FailNext(devapi.OpCreateCourse, http.StatusBadGateway, "")
	ctx := context.Background()
	tmpl := testutil.NewTestCourse("Go").CourseTemplate

	_, err := client.CreateCourse(ctx, tmpl)
	assert.ErrorIs(t, err, api.ErrServerRejected)
	assert.Equal(t, "db down", api.Message(err))

	_, err = client.CreateCourse(ctx, tmpl)
	assert.ErrorIs(t, err, api.ErrNetwork)

	_, err = client.CreateCourse(ctx, tmpl)
	assert.NoError(t, err)
}

func TestLessons(t *testing.T) {
	srv, client := setup(t)
	id := srv.SeedCourse(testutil.NewTestCourse("Go", testutil.WithCourseID("c1")))
	srv.SeedLesson(testutil.NewTestLesson(id, "Intro", testutil.WithFree()))
	ctx := context.Background()

	require.NoError(t, client.CreateLesson(ctx, id, testutil.NewTestLesson(id, "Types").Data))

	lessons, err := client.ListLessons(ctx, id)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.True(t, lessons[0].Data.IsFree)
	assert.Equal(t, "Types", lessons[1].Data.Title.En)

	got, err := client.GetLesson(ctx, id, lessons[1].Key)
	require.NoError(t, err)
	assert.Equal(t, "Types content", got.Data.Content.En)

	_, err = client.GetLesson(ctx, id, "nope")
	assert.ErrorIs(t, err, api.ErrServerRejected)

	err = client.CreateLesson(ctx, id, domain.LessonData{})
	assert.ErrorIs(t, err, api.ErrServerRejected)
}

func TestContentTypes(t *testing.T) {
	srv := devapi.New(devapi.WithContentTypes("p", "h1"))
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = hs.URL
	client, err := api.NewClient(cfg, api.StaticToken(srv.IssueToken("anyone")), nil)
	require.NoError(t, err)

	types, err := client.ContentTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "h1"}, types)

	reqs := srv.RequestsTo(http.MethodGet, "/admin/api/content-types")
	require.Len(t, reqs, 1)
	assert.Equal(t, "entity=courses", reqs[0].Query)
}
