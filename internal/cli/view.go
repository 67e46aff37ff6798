package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewLogin ViewID = iota
	ViewCourseList
	ViewWizard
	ViewLessons
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// viewCapturesInput returns true if the view has its own text input and
// should receive all key events, bypassing global keys like q and esc.
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	switch v.ID() {
	case ViewLogin, ViewWizard, ViewForm:
		return true
	}
	return false
}

// viewRequiresSession is false only for the login view.
func viewRequiresSession(v View) bool {
	return v != nil && v.ID() != ViewLogin
}
