package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/naumanrao/courseadmin/internal/domain"
)

// ListCourses returns every course visible to the admin.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var out struct {
		Data []domain.Course `json:"data"`
	}
	err := c.do(ctx, request{op: "list courses", method: http.MethodGet, endpoint: "admin/api/courses"}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateCourse publishes a new course and returns its server-assigned id.
func (c *Client) CreateCourse(ctx context.Context, tmpl domain.CourseTemplate) (string, error) {
	body, err := jsonBody(domain.CoursePayload{CourseTemplate: tmpl})
	if err != nil {
		return "", err
	}

	var out struct {
		Data struct {
			CourseID string `json:"course_id"`
		} `json:"data"`
		CourseID string `json:"course_id"`
	}
	err = c.do(ctx, request{op: "create course", method: http.MethodPost, endpoint: "admin/api/courses", body: body}, &out)
	if err != nil {
		return "", err
	}

	id := domain.CoalesceStr(out.Data.CourseID, out.CourseID)
	if id == "" {
		return "", &NetworkError{Op: "create course", Err: errors.New("response carried no course_id")}
	}
	return id, nil
}

// UpdateCourse replaces the stored template of courseID.
func (c *Client) UpdateCourse(ctx context.Context, courseID string, tmpl domain.CourseTemplate) error {
	if strings.TrimSpace(courseID) == "" {
		return Invalid("course_id", "course has not been published yet")
	}
	body, err := jsonBody(domain.CoursePayload{CourseTemplate: tmpl})
	if err != nil {
		return err
	}
	return c.do(ctx, request{op: "update course", method: http.MethodPut, endpoint: coursePath(courseID), body: body}, nil)
}

// UploadAsset sends file as multipart field slot and returns the object key
// the server stored it under.
func (c *Client) UploadAsset(ctx context.Context, courseID string, slot domain.Slot, file domain.File) (string, error) {
	if strings.TrimSpace(courseID) == "" {
		return "", Invalid("course_id", "course must be published before uploading assets")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(string(slot), filepath.Base(file.Name))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", slot, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("upload %s: %w", slot, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", slot, err)
	}

	var out struct {
		Data map[string]string `json:"data"`
	}
	op := "upload " + string(slot)
	err = c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		endpoint:    coursePath(courseID, "upload-assets"),
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return "", err
	}

	key := out.Data[slot.KeyField()]
	if key == "" {
		return "", &NetworkError{Op: op, Err: fmt.Errorf("response carried no %s", slot.KeyField())}
	}
	return key, nil
}

// ContentTypes lists the block types the course page renderer accepts.
func (c *Client) ContentTypes(ctx context.Context) ([]string, error) {
	var out struct {
		Data struct {
			ContentTypes []string `json:"content_types"`
		} `json:"data"`
	}
	err := c.do(ctx, request{
		op:       "list content types",
		method:   http.MethodGet,
		endpoint: "admin/api/content-types",
		query:    url.Values{"entity": {"courses"}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data.ContentTypes, nil
}
