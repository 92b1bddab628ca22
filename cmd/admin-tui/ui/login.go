package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmoraes94/verzel-admin/internal/session"
	"github.com/lmoraes94/verzel-admin/internal/validation"
)

type loginDoneMsg struct {
	err error
}

type LoginModel struct {
	form    form
	loading bool
	sess    *session.Manager
}

func NewLoginModel(sess *session.Manager) *LoginModel {
	return &LoginModel{
		sess: sess,
		form: newForm(
			field{label: "E-mail", name: "Email"},
			field{label: "Senha", name: "Password", masked: true},
		),
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return nil
}

func loginCmd(sess *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := sess.Login(context.Background(), email, password)
		return loginDoneMsg{err: err}
	}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.loading = false
		if msg.err == nil {
			m.form.clear()
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.form.next()
		case "shift+tab", "up":
			m.form.prev()
		case "enter":
			loginForm := validation.LoginForm{
				Email:    m.form.value("Email"),
				Password: m.form.value("Password"),
			}
			if err := validation.Struct(loginForm); err != nil {
				if errs, ok := err.(validation.FieldErrors); ok {
					m.form.errs = errs
				}
				return m, nil
			}
			m.form.errs = nil
			m.loading = true
			return m, loginCmd(m.sess, loginForm.Email, loginForm.Password)
		case "ctrl+l":
			m.form.clear()
		case "backspace":
			m.form.backspace()
		default:
			if len(msg.String()) == 1 {
				m.form.typeRune(msg.String())
			}
		}
	}
	return m, nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Render("PAINEL ADMINISTRATIVO")
	subtitle := lipgloss.NewStyle().
		Foreground(Muted).
		Render("Entre com suas credenciais para continuar.")

	b.WriteString(centered(80, title))
	b.WriteString("\n")
	b.WriteString(centered(80, subtitle))
	b.WriteString("\n\n")

	b.WriteString(m.form.View(78))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(centered(80, InfoStyle.Render("Entrando...")))
		b.WriteString("\n")
	}

	help := InfoStyle.Render("tab alternar  •  enter entrar  •  ctrl+l limpar  •  ctrl+c sair")
	b.WriteString("\n")
	b.WriteString(centered(80, help))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(2, 4).
		Width(84).
		Render(b.String())
}
