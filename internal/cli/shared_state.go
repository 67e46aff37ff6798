package cli

import (
	"context"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/session"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Wizard is the one course draft of this console.
	Wizard *wizard.Machine

	// Status is refreshed on every guarded navigation.
	Status app.SessionStatus

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(a *App) *SharedState {
	return &SharedState{
		App:    a,
		Wizard: wizard.NewMachine(a.Courses, a.Courses, a.logger().Named("wizard")),
	}
}

// requireSession runs the guard and records the session status.
func (s *SharedState) requireSession(ctx context.Context) error {
	cred, err := s.App.Guard.Require(ctx)
	if err != nil {
		s.Status = app.SessionStatus{}
		return err
	}
	s.setCredential(cred)
	return nil
}

func (s *SharedState) setCredential(cred *session.Credential) {
	s.Status = app.NewSessionStatus(cred, s.App.Guard.Remaining(cred))
}

// ContentHeight is the height left for the active view.
func (s *SharedState) ContentHeight() int {
	h := s.Height - 6
	if h < 5 {
		return 5
	}
	return h
}
