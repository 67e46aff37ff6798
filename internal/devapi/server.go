// Package devapi is an in-memory implementation of the course admin API.
// It backs the client tests and the devserver command.
package devapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/domain"
)

// Op names an endpoint for failure injection.
type Op string

const (
	OpLogin        Op = "login"
	OpListCourses  Op = "list_courses"
	OpCreateCourse Op = "create_course"
	OpUpdateCourse Op = "update_course"
	OpUploadAsset  Op = "upload_asset"
	OpListLessons  Op = "list_lessons"
	OpGetLesson    Op = "get_lesson"
	OpCreateLesson Op = "create_lesson"
	OpContentTypes Op = "content_types"
)

// DefaultContentTypes are served when none are configured.
var DefaultContentTypes = []string{"p", "h2", "h3", "blockquote"}

const maxUploadBytes = 64 << 20

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	// Field is the multipart field of an upload.
	Field string
	// File is the uploaded file name.
	File string
}

type account struct {
	password string
	user     domain.User
}

type failure struct {
	status  int
	message string
}

// Server holds all state in memory. The zero value is not usable; call New.
type Server struct {
	mu     sync.Mutex
	logger *zap.Logger

	accounts     map[string]account
	tokens       map[string]string
	courses      map[string]domain.Course
	order        []string
	lessons      map[string][]domain.Lesson
	uploads      map[string][]byte
	contentTypes []string

	nextCourseIDs []string
	uploadKeys    map[domain.Slot]string
	failures      map[Op][]failure
	requests      []Request
}

type Option func(*Server)

// WithUser registers an account that can log in.
func WithUser(username, password string, user domain.User) Option {
	return func(s *Server) { s.AddUser(username, password, user) }
}

func WithContentTypes(types ...string) Option {
	return func(s *Server) { s.contentTypes = append([]string(nil), types...) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func New(opts ...Option) *Server {
	s := &Server{
		logger:       zap.NewNop(),
		accounts:     map[string]account{},
		tokens:       map[string]string{},
		courses:      map[string]domain.Course{},
		lessons:      map[string][]domain.Lesson{},
		uploads:      map[string][]byte{},
		contentTypes: DefaultContentTypes,
		uploadKeys:   map[domain.Slot]string{},
		failures:     map[Op][]failure{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router serving /admin/api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.record)

	r.Route("/admin/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireBearer)
			r.Get("/content-types", s.handleContentTypes)
			r.Route("/courses", func(r chi.Router) {
				r.Get("/", s.handleListCourses)
				r.Post("/", s.handleCreateCourse)
				r.Route("/{courseID}", func(r chi.Router) {
					r.Put("/", s.handleUpdateCourse)
					r.Post("/upload-assets", s.handleUpload)
					r.Get("/lessons", s.handleListLessons)
					r.Post("/lessons", s.handleCreateLesson)
					r.Get("/lessons/{lessonKey}", s.handleGetLesson)
				})
			})
		})
	})
	return r
}

// AddUser registers or replaces an account.
func (s *Server) AddUser(username, password string, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.Username == "" {
		user.Username = username
	}
	s.accounts[username] = account{password: password, user: user}
}

// IssueToken returns a valid token for username without a login call.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = username
	return token
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]string{}
}

// SeedCourse stores c as if it had been created. A blank id is generated.
func (s *Server) SeedCourse(c domain.Course) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.newCourseIDLocked()
	}
	s.putCourseLocked(c)
	return c.ID
}

// SeedLesson appends l under its course.
func (s *Server) SeedLesson(l domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.Key == "" {
		l.Key = uuid.NewString()
	}
	s.lessons[l.CourseID] = append(s.lessons[l.CourseID], l)
}

// NextCourseIDs queues ids handed out by subsequent creates.
func (s *Server) NextCourseIDs(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCourseIDs = append(s.nextCourseIDs, ids...)
}

// SetUploadKey fixes the key returned for uploads into slot.
func (s *Server) SetUploadKey(slot domain.Slot, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadKeys[slot] = key
}

// FailNext makes the next call of op answer with status. A blank message
// sends an empty body.
func (s *Server) FailNext(op Op, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failure{status: status, message: message})
}

// Requests returns every call received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo filters Requests by method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) Course(id string) (domain.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	return c, ok
}

func (s *Server) Lessons(courseID string) []domain.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Lesson(nil), s.lessons[courseID]...)
}

// Upload returns the stored bytes for key.
func (s *Server) Upload(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[key]
	return b, ok
}

func (s *Server) newCourseIDLocked() string {
	if len(s.nextCourseIDs) > 0 {
		id := s.nextCourseIDs[0]
		s.nextCourseIDs = s.nextCourseIDs[1:]
		return id
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *Server) putCourseLocked(c domain.Course) {
	if _, ok := s.courses[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.courses[c.ID] = c
}

// injected pops a queued failure for op and writes it.
func (s *Server) injected(w http.ResponseWriter, op Op) bool {
	s.mu.Lock()
	queue := s.failures[op]
	if len(queue) == 0 {
		s.mu.Unlock()
		return false
	}
	f := queue[0]
	s.failures[op] = queue[1:]
	s.mu.Unlock()

	if f.message == "" {
		w.WriteHeader(f.status)
		return true
	}
	writeError(w, f.status, f.message)
	return true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		rec := Request{Method: r.Method, Path: strings.TrimSuffix(r.URL.Path, "/"), Query: r.URL.RawQuery}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			rec.Body = body
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		idx := len(s.requests) - 1
		s.mu.Unlock()

		next.ServeHTTP(w, r.WithContext(withRecordIndex(r.Context(), idx)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, known := s.tokens[strings.TrimSpace(token)]
		s.mu.Unlock()
		if !ok || !known {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpLogin) {
		return
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[body.Username]
	if !ok || acct.password != body.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = body.Username
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": acct.user})
}

func (s *Server) handleContentTypes(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpContentTypes) {
		return
	}
	if r.URL.Query().Get("entity") != "courses" {
		writeError(w, http.StatusBadRequest, "unknown entity")
		return
	}
	s.mu.Lock()
	types := append([]string(nil), s.contentTypes...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]any{"content_types": types})
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpListCourses) {
		return
	}
	s.mu.Lock()
	out := make([]domain.Course, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.courses[id])
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpCreateCourse) {
		return
	}
	var payload domain.CoursePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid course payload")
		return
	}
	if payload.CourseTemplate.Title.En == "" {
		writeError(w, http.StatusBadRequest, "course_template.title.en is required")
		return
	}
	s.mu.Lock()
	id := s.newCourseIDLocked()
	s.putCourseLocked(domain.Course{ID: id, CourseTemplate: payload.CourseTemplate})
	s.mu.Unlock()
	writeData(w, http.StatusCreated, map[string]string{"course_id": id})
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpUpdateCourse) {
		return
	}
	id := chi.URLParam(r, "courseID")
	var payload domain.CoursePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid course payload")
		return
	}
	s.mu.Lock()
	if _, ok := s.courses[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	s.putCourseLocked(domain.Course{ID: id, CourseTemplate: payload.CourseTemplate})
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]string{"course_id": id})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpUploadAsset) {
		return
	}
	id := chi.URLParam(r, "courseID")
	if !s.hasCourse(id) {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	for _, slot := range []domain.Slot{domain.SlotThumbnail, domain.SlotPreviewVideo, domain.SlotLessonVideo} {
		headers := r.MultipartForm.File[string(slot)]
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file")
			return
		}

		s.mu.Lock()
		key := s.uploadKeys[slot]
		if key == "" {
			key = fmt.Sprintf("courses/%s/%s/%s", id, slot, headers[0].Filename)
		}
		s.uploads[key] = data
		s.annotateLocked(r, string(slot), headers[0].Filename)
		s.mu.Unlock()

		writeData(w, http.StatusOK, map[string]string{slot.KeyField(): key})
		return
	}
	writeError(w, http.StatusBadRequest, "no file in a known field")
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpListLessons) {
		return
	}
	id := chi.URLParam(r, "courseID")
	if !s.hasCourse(id) {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	writeData(w, http.StatusOK, s.Lessons(id))
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpGetLesson) {
		return
	}
	id := chi.URLParam(r, "courseID")
	key := chi.URLParam(r, "lessonKey")
	for _, l := range s.Lessons(id) {
		if l.Key == key {
			writeData(w, http.StatusOK, l)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Lesson not found")
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, OpCreateLesson) {
		return
	}
	id := chi.URLParam(r, "courseID")
	if !s.hasCourse(id) {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	var body struct {
		LessonData *domain.LessonData `json:"lesson_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LessonData == nil {
		writeError(w, http.StatusBadRequest, "lesson_data is required")
		return
	}
	if body.LessonData.Title.En == "" {
		writeError(w, http.StatusBadRequest, "lesson_data.title.en is required")
		return
	}
	lesson := domain.Lesson{Key: uuid.NewString(), CourseID: id, Data: *body.LessonData}
	s.mu.Lock()
	s.lessons[id] = append(s.lessons[id], lesson)
	s.mu.Unlock()
	writeData(w, http.StatusCreated, map[string]string{"lesson_key": lesson.Key})
}

func (s *Server) hasCourse(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.courses[id]
	return ok
}

// CourseIDs lists stored courses in creation order.
func (s *Server) CourseIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Usernames lists registered accounts, sorted.
func (s *Server) Usernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
