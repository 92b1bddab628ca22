package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmoraes94/verzel-admin/internal/session"
	"github.com/lmoraes94/verzel-admin/internal/validation"
)

type profileDoneMsg struct {
	err error
}

type avatarDoneMsg struct {
	err error
}

// ProfileModel edits the signed-in user. Blank fields keep the current
// value; the password is only sent when filled in.
type ProfileModel struct {
	sess       *session.Manager
	form       form
	avatarPath string
	editAvatar bool
	submitting bool
}

func NewProfileModel(sess *session.Manager) *ProfileModel {
	return &ProfileModel{sess: sess, form: newProfileForm()}
}

func newProfileForm() form {
	return newForm(
		field{label: "Nome", name: "Name"},
		field{label: "Usuário", name: "Username"},
		field{label: "E-mail", name: "Email"},
		field{label: "Telefone", name: "Phone"},
		field{label: "Nova senha", name: "Password", masked: true},
	)
}

func (m *ProfileModel) Init() tea.Cmd {
	return nil
}

func (m *ProfileModel) Reset() {
	m.form = newProfileForm()
	m.avatarPath = ""
	m.editAvatar = false
	m.submitting = false
}

func updateProfileCmd(sess *session.Manager, upd session.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		return profileDoneMsg{err: sess.UpdateProfile(context.Background(), upd)}
	}
}

func changeAvatarCmd(sess *session.Manager, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return avatarDoneMsg{err: err}
		}
		defer f.Close()
		return avatarDoneMsg{err: sess.ChangeAvatar(context.Background(), filepath.Base(path), f)}
	}
}

func removeAvatarCmd(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return avatarDoneMsg{err: sess.RemoveAvatar(context.Background())}
	}
}

func (m *ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileDoneMsg:
		m.submitting = false
		if msg.err == nil {
			m.form.setValue("Password", "")
		}
		return m, nil

	case avatarDoneMsg:
		m.submitting = false
		m.editAvatar = false
		m.avatarPath = ""
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if m.editAvatar {
			return m.updateAvatarInput(msg)
		}

		switch msg.String() {
		case "tab", "down":
			m.form.next()
		case "shift+tab", "up":
			m.form.prev()
		case "enter":
			return m.submit()
		case "ctrl+a":
			m.editAvatar = true
		case "ctrl+r":
			m.submitting = true
			return m, removeAvatarCmd(m.sess)
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

func (m *ProfileModel) updateAvatarInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.avatarPath != "" {
			m.submitting = true
			return m, changeAvatarCmd(m.sess, m.avatarPath)
		}
		m.editAvatar = false
	case "esc":
		m.editAvatar = false
		m.avatarPath = ""
	case "backspace":
		if len(m.avatarPath) > 0 {
			m.avatarPath = m.avatarPath[:len(m.avatarPath)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.avatarPath += msg.String()
		}
	}
	return m, nil
}

func (m *ProfileModel) submit() (tea.Model, tea.Cmd) {
	current := m.sess.User()
	if current == nil {
		return m, nil
	}

	// Validate the merged result, not the raw inputs: blank fields fall
	// back to the current profile before the rules run.
	merged := validation.UpdateUserForm{
		Name:     orMessage(m.form.value("Name"), current.Name),
		Username: orMessage(m.form.value("Username"), current.Username),
		Email:    orMessage(m.form.value("Email"), current.Email),
		Role:     string(current.Role),
		Password: m.form.value("Password"),
	}
	if phone := m.form.value("Phone"); phone != "" {
		merged.Phone = &phone
	} else {
		merged.Phone = current.Phone
	}
	if err := validation.Struct(merged); err != nil {
		if errs, ok := err.(validation.FieldErrors); ok {
			m.form.errs = errs
		}
		return m, nil
	}
	m.form.errs = nil

	m.submitting = true
	return m, updateProfileCmd(m.sess, session.ProfileUpdate{
		Name:     m.form.value("Name"),
		Username: m.form.value("Username"),
		Email:    m.form.value("Email"),
		Phone:    m.form.value("Phone"),
		Password: m.form.value("Password"),
	})
}

func (m *ProfileModel) View() string {
	var b strings.Builder

	b.WriteString(centered(80, TitleStyle.Render("MEU PERFIL")))
	b.WriteString("\n")

	if u := m.sess.User(); u != nil {
		info := lipgloss.NewStyle().Foreground(Muted).
			Render(u.Name + " (" + u.Email + ")")
		b.WriteString(centered(80, info))
		b.WriteString("\n")
		if u.Avatar != nil {
			b.WriteString(centered(80, InfoStyle.Render("Avatar: "+*u.Avatar)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(centered(80, InfoStyle.Render("Campos em branco mantêm o valor atual.")))
	b.WriteString("\n\n")

	b.WriteString(m.form.View(78))
	b.WriteString("\n")

	if m.editAvatar {
		prompt := FocusedInputStyle.Width(60).Render(m.avatarPath)
		b.WriteString("Arquivo do avatar: " + prompt + "\n")
	}

	if m.submitting {
		b.WriteString(centered(80, InfoStyle.Render("Salvando...")))
		b.WriteString("\n")
	}

	help := "enter salvar  •  ctrl+a avatar  •  ctrl+r remover avatar  •  ctrl+l limpar"
	b.WriteString("\n")
	b.WriteString(centered(80, InfoStyle.Render(help)))

	return BoxStyle.Width(84).Render(b.String())
}
