package wizard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
)

// Step is a wizard page.
type Step int

const (
	StepDetails Step = iota + 1
	StepAbout
	StepReviews
	StepPreview
	StepAssets
)

// StepCount is the number of wizard pages.
const StepCount = 5

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "Course Details"
	case StepAbout:
		return "About"
	case StepReviews:
		return "Reviews"
	case StepPreview:
		return "Preview & Publish"
	case StepAssets:
		return "Assets"
	}
	return "Unknown"
}

// ErrBusy is returned by Next while a publish, finalize or upload is in
// flight.
var ErrBusy = errors.New("wizard is busy")

// Publisher is the slice of the API client that creates and updates courses.
type Publisher interface {
	CreateCourse(ctx context.Context, tmpl domain.CourseTemplate) (string, error)
	UpdateCourse(ctx context.Context, courseID string, tmpl domain.CourseTemplate) error
}

// ContentTypeSource lists the selectable content block types.
type ContentTypeSource interface {
	ContentTypes(ctx context.Context) ([]string, error)
}

// Outcome describes what a Next call did.
type Outcome struct {
	Step      Step
	Published bool
	Finished  bool
	CourseID  string
	// AssetErr is the first failed replay of a staged upload after publish.
	AssetErr error
	// Stale is set when the draft was reset while the call was in flight;
	// the result was discarded.
	Stale bool
}

// Machine owns the one draft being edited and gates step transitions.
type Machine struct {
	mu        sync.Mutex
	publisher Publisher
	assets    *Coordinator
	logger    *zap.Logger

	step         Step
	fields       *Fields
	priceInput   string
	price        float64
	reviews      []domain.Review
	courseID     string
	busy         bool
	generation   uint64
	contentTypes []string
}

func NewMachine(publisher Publisher, uploader Uploader, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		publisher: publisher,
		assets:    NewCoordinator(uploader, logger.Named("assets")),
		logger:    logger,
		step:      StepDetails,
		fields:    NewFields(),
	}
}

// Step is the step the wizard is on.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// CourseID is empty until the course has been published.
func (m *Machine) CourseID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.courseID
}

// Assets exposes the staging coordinator for slot status and selection.
func (m *Machine) Assets() *Coordinator {
	return m.assets
}

// Busy reports whether a network call owned by the wizard is in flight.
func (m *Machine) Busy() bool {
	m.mu.Lock()
	busy := m.busy
	m.mu.Unlock()
	return busy || m.assets.Busy()
}

// CanAdvance is false while the wizard is busy.
func (m *Machine) CanAdvance() bool {
	return !m.Busy()
}

// Next advances one step. On Preview it publishes the course; on Assets it
// finalizes the course with the confirmed asset keys. A failed network call
// leaves the step and all field values unchanged.
func (m *Machine) Next(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	if m.busy || m.assets.Busy() {
		step := m.step
		m.mu.Unlock()
		return Outcome{Step: step}, ErrBusy
	}

	switch m.step {
	case StepPreview:
		return m.publish(ctx)
	case StepAssets:
		return m.finalize(ctx)
	default:
		m.step++
		out := Outcome{Step: m.step, CourseID: m.courseID}
		m.mu.Unlock()
		return out, nil
	}
}

// publish runs with m.mu held and releases it.
func (m *Machine) publish(ctx context.Context) (Outcome, error) {
	m.busy = true
	gen := m.generation
	existing := m.courseID
	keys := AssetKeys{}
	if existing != "" {
		keys = m.confirmedKeys()
	}
	tmpl := BuildTemplate(m.fields.clone(), m.price, m.reviewsCopy(), keys)
	m.mu.Unlock()

	id := existing
	var err error
	if existing == "" {
		id, err = m.publisher.CreateCourse(ctx, tmpl)
	} else {
		err = m.publisher.UpdateCourse(ctx, existing, tmpl)
	}

	m.mu.Lock()
	if gen != m.generation {
		step := m.step
		m.mu.Unlock()
		m.logger.Debug("dropping stale publish result")
		return Outcome{Step: step, Stale: true}, nil
	}
	m.busy = false
	if err != nil {
		step := m.step
		m.mu.Unlock()
		m.logger.Warn("publish failed", zap.Error(err))
		return Outcome{Step: step}, fmt.Errorf("publishing course: %w", err)
	}
	m.courseID = id
	m.step = StepAssets
	m.mu.Unlock()
	m.logger.Info("course published", zap.String("course_id", id))

	var assetErr error
	if existing == "" {
		assetErr = m.assets.OnCourseIdentifierAvailable(ctx, id)
	}
	return Outcome{Step: StepAssets, Published: true, CourseID: id, AssetErr: assetErr}, nil
}

// finalize runs with m.mu held and releases it.
func (m *Machine) finalize(ctx context.Context) (Outcome, error) {
	if m.courseID == "" {
		step := m.step
		m.mu.Unlock()
		return Outcome{Step: step}, api.Invalid("course_id", "course has not been published yet")
	}
	m.busy = true
	gen := m.generation
	id := m.courseID
	tmpl := BuildTemplate(m.fields.clone(), m.price, m.reviewsCopy(), m.confirmedKeys())
	m.mu.Unlock()

	err := m.publisher.UpdateCourse(ctx, id, tmpl)

	m.mu.Lock()
	if gen != m.generation {
		step := m.step
		m.mu.Unlock()
		m.logger.Debug("dropping stale finalize result")
		return Outcome{Step: step, Stale: true}, nil
	}
	m.busy = false
	if err != nil {
		step := m.step
		m.mu.Unlock()
		m.logger.Warn("finalize failed", zap.String("course_id", id), zap.Error(err))
		return Outcome{Step: step, CourseID: id}, fmt.Errorf("saving course assets: %w", err)
	}
	m.resetLocked()
	m.mu.Unlock()
	m.logger.Info("course finalized", zap.String("course_id", id))
	return Outcome{Step: StepDetails, Finished: true, CourseID: id}, nil
}

func (m *Machine) confirmedKeys() AssetKeys {
	return AssetKeys{
		Thumbnail:    m.assets.ConfirmedKey(domain.SlotThumbnail),
		PreviewVideo: m.assets.ConfirmedKey(domain.SlotPreviewVideo),
	}
}

// Prev goes back one step, floored at the first. It never touches the
// network.
func (m *Machine) Prev() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step > StepDetails {
		m.step--
	}
	return m.step
}

// Reset discards the draft. Results of calls still in flight are ignored.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.generation++
	m.step = StepDetails
	m.fields.Reset()
	m.priceInput = ""
	m.price = 0
	m.reviews = nil
	m.courseID = ""
	m.busy = false
	m.assets.Reset()
}

// Template builds the payload for the current draft. withAssets merges the
// confirmed asset keys; otherwise both are empty.
func (m *Machine) Template(withAssets bool) domain.CourseTemplate {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := AssetKeys{}
	if withAssets {
		keys = m.confirmedKeys()
	}
	return BuildTemplate(m.fields.clone(), m.price, m.reviewsCopy(), keys)
}

// Text returns one locale of a text field.
func (m *Machine) Text(field TextField, loc domain.Locale) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields.Text(field, loc)
}

// SetText overwrites one locale of a text field.
func (m *Machine) SetText(field TextField, loc domain.Locale, v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields.SetText(field, loc, v)
}

// List returns a copy of one locale of a list field.
func (m *Machine) List(field ListField, loc domain.Locale) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields.List(field, loc)
}

// AddListItem appends item unless it is blank or already present.
func (m *Machine) AddListItem(field ListField, loc domain.Locale, item string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields.AddListItem(field, loc, item)
}

// RemoveListItem reports false for an out-of-range index.
func (m *Machine) RemoveListItem(field ListField, loc domain.Locale, index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields.RemoveListItem(field, loc, index)
}

// SetPrice parses a finite decimal price. Blank means zero.
func (m *Machine) SetPrice(input string) error {
	input = strings.TrimSpace(input)
	price := 0.0
	if input != "" {
		p, err := strconv.ParseFloat(input, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			return api.Invalid("price", "must be a number")
		}
		if p < 0 {
			return api.Invalid("price", "must not be negative")
		}
		price = p
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceInput = input
	m.price = price
	return nil
}

// Price returns the typed input and its parsed value.
func (m *Machine) Price() (string, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priceInput, m.price
}

// AddReview appends a review after validating it.
func (m *Machine) AddReview(name string, rating int, comment string) error {
	name = strings.TrimSpace(name)
	comment = strings.TrimSpace(comment)
	switch {
	case name == "":
		return api.Invalid("review name", "required")
	case comment == "":
		return api.Invalid("review comment", "required")
	case rating < 1 || rating > 5:
		return api.Invalid("review rating", "must be between 1 and 5")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, domain.Review{Name: name, Rating: rating, Comment: comment})
	return nil
}

// RemoveReview reports false for an out-of-range index.
func (m *Machine) RemoveReview(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.reviews) {
		return false
	}
	m.reviews = append(m.reviews[:index:index], m.reviews[index+1:]...)
	return true
}

// Reviews returns a copy of the reviews in entry order.
func (m *Machine) Reviews() []domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewsCopy()
}

func (m *Machine) reviewsCopy() []domain.Review {
	return append([]domain.Review(nil), m.reviews...)
}

// LoadContentTypes fetches the dropdown options. A failure leaves the
// previous options in place.
func (m *Machine) LoadContentTypes(ctx context.Context, src ContentTypeSource) ([]string, error) {
	types, err := src.ContentTypes(ctx)
	if err != nil {
		m.logger.Warn("loading content types failed", zap.Error(err))
		return m.ContentTypes(), err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contentTypes = append([]string(nil), types...)
	return append([]string(nil), types...), nil
}

// ContentTypes returns the last options loaded.
func (m *Machine) ContentTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.contentTypes...)
}

// Load replaces the draft with an existing course and returns to the first
// step. Values equal to the blank sentinel load as empty.
func (m *Machine) Load(course domain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()

	for _, loc := range domain.Locales {
		m.fields.SetText(FieldTitle, loc, unfill(course.Title.Get(loc)))
		m.fields.SetText(FieldSubtitle, loc, unfill(course.Subtitle.Get(loc)))
		for _, tag := range course.FullDetails.Tags[loc] {
			m.fields.AddListItem(FieldTags, loc, tag)
		}
	}

	descLoaded := false
	for _, block := range course.FullDetails.Content {
		if block.Type == domain.ContentTypeList {
			items, err := block.ListItems()
			if err != nil {
				return err
			}
			for _, item := range items {
				for _, loc := range domain.Locales {
					m.fields.AddListItem(FieldObjectives, loc, unfill(item.Get(loc)))
				}
			}
			continue
		}
		if descLoaded {
			continue
		}
		text, err := block.TextValue()
		if err != nil {
			return err
		}
		for _, loc := range domain.Locales {
			m.fields.SetText(FieldDescription, loc, unfill(text.Get(loc)))
		}
		if block.Type != "" && block.Type != DefaultContentType {
			m.fields.SetText(FieldContentType, domain.LocaleEN, block.Type)
		}
		descLoaded = true
	}

	for _, r := range course.FullDetails.OrderedReviews() {
		m.reviews = append(m.reviews, domain.Review{Name: r.Name, Rating: r.Rating, Comment: unfill(r.Comment.En)})
	}

	if course.Price != 0 {
		m.priceInput = strconv.FormatFloat(float64(course.Price), 'f', -1, 64)
	}
	m.price = float64(course.Price)
	m.courseID = course.ID
	m.assets.Preload(course.ID, map[domain.Slot]string{
		domain.SlotThumbnail:    course.Thumbnail,
		domain.SlotPreviewVideo: course.PreviewVideo,
	})
	return nil
}

func unfill(v string) string {
	if v == EmptySentinel {
		return ""
	}
	return v
}
