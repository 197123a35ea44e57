// Package view holds the navigation state of the single UI session: which
// screen is displayed and which member, if any, is selected.
package view

import (
	"context"
	"strings"
	"sync"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/metrics"
)

type View string

const (
	Home       View = "HOME"
	Register   View = "REGISTER"
	Directory  View = "DIRECTORY"
	Fund       View = "FUND"
	DikriYojna View = "DIKRI_YOJNA"
)

// All lists the navigable screens in header order.
func All() []View {
	return []View{Home, Register, Directory, Fund, DikriYojna}
}

// Title returns the Gujarati heading for v.
func (v View) Title() string {
	switch v {
	case Register:
		return "નોંધણી"
	case Directory:
		return "સભ્ય યાદી"
	case Fund:
		return "ફંડ"
	case DikriYojna:
		return "દીકરી યોજના"
	default:
		return "મુખ્ય પૃષ્ઠ"
	}
}

// ParseView matches name case-insensitively against the known screens.
// Dashes are accepted in place of underscores so URLs can use dikri-yojna.
func ParseView(name string) (View, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	for _, v := range All() {
		if string(v) == n {
			return v, true
		}
	}
	return "", false
}

// State is a value copy of the controller state.
type State struct {
	Current          View
	SelectedMemberID string
}

// Controller is a finite-state navigator. Every screen is reachable from
// every other one and no transition touches ApplicationData.
type Controller struct {
	mu    sync.Mutex
	state State

	logger  *applog.Logger
	metrics *metrics.Metrics
}

// NewController returns a controller on the HOME screen with no selection.
func NewController(logger *applog.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &Controller{
		state:   State{Current: Home},
		logger:  logger.WithComponent(applog.ComponentView),
		metrics: m,
	}
}

// Navigate switches to the named screen. Unknown names leave the current
// screen in place and return false.
func (c *Controller) Navigate(name string) bool {
	v, ok := ParseView(name)
	c.metrics.IncNavigation(string(v), ok)
	if !ok {
		c.logger.Debug("Ignoring navigation to unknown view",
			applog.FieldView, name,
			applog.FieldOperation, applog.OpNavigate)
		return false
	}

	c.mu.Lock()
	from := c.state.Current
	c.state.Current = v
	c.mu.Unlock()

	c.logger.Debug("Navigated", "from", from, applog.FieldView, v)
	return true
}

// NavigateWithMember selects memberID and then navigates. The selection is
// only applied when the target screen exists.
func (c *Controller) NavigateWithMember(name, memberID string) bool {
	v, ok := ParseView(name)
	c.metrics.IncNavigation(string(v), ok)
	if !ok {
		c.logger.Debug("Ignoring navigation to unknown view",
			applog.FieldView, name,
			applog.FieldMemberID, memberID)
		return false
	}

	c.mu.Lock()
	c.state = State{Current: v, SelectedMemberID: memberID}
	c.mu.Unlock()
	return true
}

// Select sets the selected member without changing screen.
func (c *Controller) Select(memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedMemberID = memberID
}

func (c *Controller) ClearSelection() {
	c.Select("")
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns to HOME with nothing selected.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Current: Home}
}

// SelectedMember resolves the selection against data. The selection is a
// plain id, so a member removed after being selected is simply not found.
func (c *Controller) SelectedMember(data core.ApplicationData) (core.Member, bool) {
	id := c.State().SelectedMemberID
	if id == "" {
		return core.Member{}, false
	}
	return data.FindMember(id)
}
