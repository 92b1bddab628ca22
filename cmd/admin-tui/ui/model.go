package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmoraes94/verzel-admin/internal/session"
)

type View int

const (
	SplashView View = iota
	LoginView
	UsersView
	CarsView
	ProfileView
)

type hydratedMsg struct{}

type Model struct {
	currentView View
	login       *LoginModel
	users       *UsersModel
	cars        *CarsModel
	profile     *ProfileModel
	sess        *session.Manager
	events      *Events
	toast       toast
	width       int
	height      int
}

func NewModel(sess *session.Manager, events *Events, login *LoginModel, users *UsersModel, cars *CarsModel, profile *ProfileModel) Model {
	return Model{
		currentView: SplashView,
		login:       login,
		users:       users,
		cars:        cars,
		profile:     profile,
		sess:        sess,
		events:      events,
	}
}

func hydrateCmd(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		_ = sess.Hydrate(context.Background())
		return hydratedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		hydrateCmd(m.sess),
		waitForToast(m.events),
		waitForRoute(m.events),
	)
}

// viewForRoute applies the route guard: protected routes fall back to the
// login screen when no user is signed in.
func (m Model) viewForRoute(route string) View {
	if !m.sess.Signed() {
		return LoginView
	}
	switch route {
	case session.RouteUsers:
		return UsersView
	case session.RouteCars:
		return CarsView
	case session.RouteProfile:
		return ProfileView
	default:
		return LoginView
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case hydratedMsg:
		if m.sess.Signed() {
			m.currentView = UsersView
			m.users.Reset()
			return m, loadUsersCmd(m.users.controller)
		}
		m.currentView = LoginView
		return m, nil

	case routeMsg:
		next := m.viewForRoute(msg.route)
		cmd := waitForRoute(m.events)
		if next != m.currentView {
			m.currentView = next
			switch next {
			case UsersView:
				m.users.Reset()
				return m, tea.Batch(cmd, loadUsersCmd(m.users.controller))
			case CarsView:
				m.cars.Reset()
				return m, tea.Batch(cmd, loadCarsCmd(m.cars.controller))
			case ProfileView:
				m.profile.Reset()
			}
		}
		return m, cmd

	case toastMsg:
		m.toast.show(msg.notification)
		seq := m.toast.seq
		dismiss := tea.Tick(msg.notification.Duration, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		})
		return m, tea.Batch(waitForToast(m.events), dismiss)

	case toastExpiredMsg:
		m.toast.expire(msg.seq)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+u":
			if m.sess.Signed() && m.currentView != UsersView {
				m.currentView = UsersView
				m.users.Reset()
				return m, loadUsersCmd(m.users.controller)
			}

		case "ctrl+k":
			if m.sess.Signed() && m.currentView != CarsView {
				m.currentView = CarsView
				m.cars.Reset()
				return m, loadCarsCmd(m.cars.controller)
			}

		case "ctrl+o":
			if m.sess.Signed() && m.currentView != ProfileView {
				m.currentView = ProfileView
				m.profile.Reset()
				return m, nil
			}

		case "ctrl+d":
			if m.sess.Signed() {
				m.sess.Logout()
				return m, nil
			}
		}
	}

	switch m.currentView {
	case LoginView:
		updated, cmd := m.login.Update(msg)
		m.login = updated.(*LoginModel)
		return m, cmd

	case UsersView:
		updated, cmd := m.users.Update(msg)
		m.users = updated.(*UsersModel)
		return m, cmd

	case CarsView:
		updated, cmd := m.cars.Update(msg)
		m.cars = updated.(*CarsModel)
		return m, cmd

	case ProfileView:
		updated, cmd := m.profile.Update(msg)
		m.profile = updated.(*ProfileModel)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var statusBar string
	if m.sess.Signed() && m.currentView != LoginView && m.currentView != SplashView {
		user := m.sess.User()
		name := ""
		email := ""
		if user != nil {
			name = user.Name
			email = user.Email
		}
		userInfo := lipgloss.NewStyle().Foreground(Success).Render("● " + name)
		emailInfo := lipgloss.NewStyle().Foreground(Muted).Render(" (" + email + ")")
		nav := lipgloss.NewStyle().Foreground(Muted).
			Render("   ctrl+u usuários  •  ctrl+k carros  •  ctrl+o perfil  •  ctrl+d sair")
		statusBar = StatusBarStyle.Render(userInfo + emailInfo + nav)
	}

	var mainContent string
	switch m.currentView {
	case SplashView:
		mainContent = m.splashView()
	case LoginView:
		mainContent = m.login.View()
	case UsersView:
		mainContent = m.users.View()
	case CarsView:
		mainContent = m.cars.View()
	case ProfileView:
		mainContent = m.profile.View()
	}

	parts := make([]string, 0, 3)
	if statusBar != "" {
		parts = append(parts, statusBar)
	}
	if t := m.toast.View(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, mainContent)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) splashView() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(Primary).Bold(true).Render("PAINEL ADMINISTRATIVO")
	b.WriteString("\n\n")
	b.WriteString(centered(80, title))
	b.WriteString("\n\n")
	b.WriteString(centered(80, InfoStyle.Render("Restaurando sessão...")))
	return BoxStyle.Width(84).Render(b.String())
}
