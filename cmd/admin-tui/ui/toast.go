package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmoraes94/verzel-admin/internal/session"
)

// Events bridges the session manager's callbacks into the Bubble Tea
// message loop. Notifications and route changes are pushed onto buffered
// channels and drained by long-running commands.
type Events struct {
	toasts chan session.Notification
	routes chan string
}

func NewEvents() *Events {
	return &Events{
		toasts: make(chan session.Notification, 8),
		routes: make(chan string, 8),
	}
}

func (e *Events) Notify(n session.Notification) {
	select {
	case e.toasts <- n:
	default:
	}
}

func (e *Events) Navigate(route string) {
	select {
	case e.routes <- route:
	default:
	}
}

type toastMsg struct {
	notification session.Notification
}

type toastExpiredMsg struct {
	seq int
}

type routeMsg struct {
	route string
}

func waitForToast(e *Events) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{notification: <-e.toasts}
	}
}

func waitForRoute(e *Events) tea.Cmd {
	return func() tea.Msg {
		return routeMsg{route: <-e.routes}
	}
}

// toast holds the currently visible notification. seq distinguishes the
// expiry tick of an older toast from the current one, so a new toast is
// not dismissed early by its predecessor's timer.
type toast struct {
	notification session.Notification
	visible      bool
	seq          int
}

func (t *toast) show(n session.Notification) {
	t.notification = n
	t.visible = true
	t.seq++
}

func (t *toast) expire(seq int) {
	if seq == t.seq {
		t.visible = false
	}
}

func (t *toast) View() string {
	if !t.visible {
		return ""
	}
	line := t.notification.Title + " " + t.notification.Description
	if t.notification.Severity == session.SeverityError {
		return ToastErrorStyle.Render("✗ " + line)
	}
	return ToastSuccessStyle.Render("✓ " + line)
}
