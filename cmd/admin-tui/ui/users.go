package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmoraes94/verzel-admin/internal/api"
	"github.com/lmoraes94/verzel-admin/internal/format"
	"github.com/lmoraes94/verzel-admin/internal/listview"
	"github.com/lmoraes94/verzel-admin/internal/models"
	"github.com/lmoraes94/verzel-admin/internal/session"
	"github.com/lmoraes94/verzel-admin/internal/validation"
)

type screenMode int

const (
	modeList screenMode = iota
	modeSearch
	modeCreate
	modeEdit
	modeConfirmDelete
	modeImagePath
)

type usersLoadedMsg struct{}

type userMutatedMsg struct {
	message string
	err     error
}

type UsersModel struct {
	controller *listview.Controller[models.User]
	client     *api.Client
	sess       *session.Manager
	events     *Events

	mode        screenMode
	cursor      int
	searchInput string
	form        form
	editingID   int64
	submitting  bool
	loaded      bool
}

func NewUsersModel(client *api.Client, cache *listview.Cache, sess *session.Manager, events *Events) *UsersModel {
	fetch := func(ctx context.Context, key listview.Key) (*models.ListResult[models.User], error) {
		return api.List[models.User](ctx, client, key.Resource, key.Page, key.PageSize, key.Search)
	}
	return &UsersModel{
		controller: listview.NewController(models.ResourceUsers, cache, fetch),
		client:     client,
		sess:       sess,
		events:     events,
	}
}

func (m *UsersModel) Init() tea.Cmd {
	return nil
}

// Reset marks the screen for a reload on next update.
func (m *UsersModel) Reset() {
	m.loaded = false
	m.mode = modeList
	m.cursor = 0
}

func loadUsersCmd(c *listview.Controller[models.User]) tea.Cmd {
	return func() tea.Msg {
		_ = c.Load(context.Background())
		return usersLoadedMsg{}
	}
}

func (m *UsersModel) notify(message string, severity session.Severity) {
	title := "Sucesso."
	if severity == session.SeverityError {
		title = "Erro."
	}
	m.events.Notify(session.Notification{
		Title:       title,
		Description: message,
		Severity:    severity,
		Duration:    session.NotificationDuration,
	})
}

func (m *UsersModel) createUserCmd(payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Create(context.Background(), models.ResourceUsers, payload)
		if err != nil {
			return userMutatedMsg{err: err}
		}
		return userMutatedMsg{message: resp.Message}
	}
}

func (m *UsersModel) updateUserCmd(id int64, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Update(context.Background(), models.ResourceUsers, id, payload)
		if err != nil {
			return userMutatedMsg{err: err}
		}
		return userMutatedMsg{message: resp.Message}
	}
}

func (m *UsersModel) deleteUserCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Delete(context.Background(), models.ResourceUsers, id)
		if err != nil {
			return userMutatedMsg{err: err}
		}
		return userMutatedMsg{message: resp.Message}
	}
}

func (m *UsersModel) rows() []models.User {
	result, _ := m.controller.Data()
	if result == nil {
		return nil
	}
	return result.Rows
}

func (m *UsersModel) selected() *models.User {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return &rows[m.cursor]
}

func (m *UsersModel) isAdmin() bool {
	u := m.sess.User()
	return u != nil && u.IsAdmin()
}

func (m *UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loaded = true
		if rows := m.rows(); m.cursor >= len(rows) && len(rows) > 0 {
			m.cursor = len(rows) - 1
		}
		return m, nil

	case userMutatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.notify(apiMessage(msg.err, "Não foi possível concluir a operação."), session.SeverityError)
			return m, nil
		}
		m.notify(orMessage(msg.message, "Operação concluída."), session.SeveritySuccess)
		m.mode = modeList
		m.form.clear()
		m.controller.Invalidate()
		return m, loadUsersCmd(m.controller)

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeCreate, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	if !m.loaded && !m.controller.Loading() {
		return m, loadUsersCmd(m.controller)
	}
	return m, nil
}

func (m *UsersModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "right", "n":
		if m.controller.CanNext() {
			m.controller.NextPage()
			m.cursor = 0
			return m, loadUsersCmd(m.controller)
		}
	case "left", "p":
		if m.controller.CanPrev() {
			m.controller.PrevPage()
			m.cursor = 0
			return m, loadUsersCmd(m.controller)
		}
	case "home":
		m.controller.FirstPage()
		m.cursor = 0
		return m, loadUsersCmd(m.controller)
	case "end":
		m.controller.LastPage()
		m.cursor = 0
		return m, loadUsersCmd(m.controller)
	case "s":
		m.controller.CyclePageSize()
		m.cursor = 0
		return m, loadUsersCmd(m.controller)
	case "/":
		m.mode = modeSearch
		m.searchInput = m.controller.Query().Search
	case "r":
		m.controller.Invalidate()
		return m, loadUsersCmd(m.controller)
	case "a":
		if m.isAdmin() {
			m.mode = modeCreate
			m.form = newUserForm(nil)
		}
	case "e", "enter":
		if u := m.selected(); u != nil && m.isAdmin() {
			m.mode = modeEdit
			m.editingID = u.ID
			m.form = newUserForm(u)
		}
	case "d":
		if m.selected() != nil && m.isAdmin() {
			m.mode = modeConfirmDelete
		}
	}

	if !m.loaded && !m.controller.Loading() {
		return m, loadUsersCmd(m.controller)
	}
	return m, nil
}

func (m *UsersModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.controller.SetSearch(m.searchInput)
		m.cursor = 0
		return m, loadUsersCmd(m.controller)
	case "esc":
		m.mode = modeList
	case "backspace":
		if len(m.searchInput) > 0 {
			m.searchInput = m.searchInput[:len(m.searchInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.searchInput += msg.String()
		}
	}
	return m, nil
}

func (m *UsersModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.form.clear()
	case "tab", "down":
		m.form.next()
	case "shift+tab", "up":
		m.form.prev()
	case "enter":
		return m.submitForm()
	case "backspace":
		m.form.backspace()
	default:
		if len(msg.String()) == 1 {
			m.form.typeRune(msg.String())
		}
	}
	return m, nil
}

func (m *UsersModel) submitForm() (tea.Model, tea.Cmd) {
	phone := m.form.value("Phone")
	var phonePtr *string
	if phone != "" {
		formatted := format.Cellphone(phone)
		phonePtr = &formatted
	}

	role := m.form.value("Role")
	if role == "" {
		role = string(models.RoleUser)
	}

	if m.mode == modeCreate {
		f := validation.CreateUserForm{
			Name:     m.form.value("Name"),
			Username: m.form.value("Username"),
			Email:    m.form.value("Email"),
			Phone:    phonePtr,
			Role:     role,
			Password: m.form.value("Password"),
		}
		if err := validation.Struct(f); err != nil {
			if errs, ok := err.(validation.FieldErrors); ok {
				m.form.errs = errs
			}
			return m, nil
		}
		m.form.errs = nil
		m.submitting = true
		return m, m.createUserCmd(map[string]any{
			"name":     f.Name,
			"username": f.Username,
			"email":    f.Email,
			"phone":    f.Phone,
			"role":     f.Role,
			"password": f.Password,
		})
	}

	f := validation.UpdateUserForm{
		Name:     m.form.value("Name"),
		Username: m.form.value("Username"),
		Email:    m.form.value("Email"),
		Phone:    phonePtr,
		Role:     role,
		Password: m.form.value("Password"),
	}
	if err := validation.Struct(f); err != nil {
		if errs, ok := err.(validation.FieldErrors); ok {
			m.form.errs = errs
		}
		return m, nil
	}
	m.form.errs = nil

	payload := map[string]any{
		"name":     f.Name,
		"username": f.Username,
		"email":    f.Email,
		"phone":    f.Phone,
		"role":     f.Role,
	}
	if f.Password != "" {
		payload["password"] = f.Password
	}
	m.submitting = true
	return m, m.updateUserCmd(m.editingID, payload)
}

func (m *UsersModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		u := m.selected()
		m.mode = modeList
		if u != nil {
			m.submitting = true
			return m, m.deleteUserCmd(u.ID)
		}
	case "n", "esc":
		m.mode = modeList
	}
	return m, nil
}

func newUserForm(u *models.User) form {
	f := newForm(
		field{label: "Nome", name: "Name"},
		field{label: "Usuário", name: "Username"},
		field{label: "E-mail", name: "Email"},
		field{label: "Telefone", name: "Phone"},
		field{label: "Função", name: "Role"},
		field{label: "Senha", name: "Password", masked: true},
	)
	if u != nil {
		f.setValue("Name", u.Name)
		f.setValue("Username", u.Username)
		f.setValue("Email", u.Email)
		if u.Phone != nil {
			f.setValue("Phone", *u.Phone)
		}
		f.setValue("Role", string(u.Role))
	}
	return f
}

func (m *UsersModel) View() string {
	switch m.mode {
	case modeCreate:
		return m.formView("NOVO USUÁRIO")
	case modeEdit:
		return m.formView("EDITAR USUÁRIO")
	case modeConfirmDelete:
		return m.confirmView()
	default:
		return m.listView()
	}
}

func (m *UsersModel) listView() string {
	var b strings.Builder

	b.WriteString(centered(100, TitleStyle.Render("USUÁRIOS")))
	b.WriteString("\n\n")

	if m.mode == modeSearch {
		prompt := FocusedInputStyle.Width(50).Render(m.searchInput)
		b.WriteString("Buscar: " + prompt + "\n\n")
	} else if q := m.controller.Query().Search; q != "" {
		b.WriteString(InfoStyle.Render("Filtro: "+q) + "\n\n")
	}

	result, stale := m.controller.Data()
	switch {
	case m.controller.Loading() && result == nil:
		b.WriteString(centered(100, InfoStyle.Render("Carregando usuários...")))
		b.WriteString("\n")
	case m.controller.Err() != nil && result == nil:
		b.WriteString(centered(100, ErrorStyle.Render("Erro: "+m.controller.Err().Error())))
		b.WriteString("\n")
	case result == nil || len(result.Rows) == 0:
		b.WriteString(centered(100, InfoStyle.Render("Nenhum usuário encontrado.")))
		b.WriteString("\n")
	default:
		b.WriteString(m.tableView(result.Rows))
		if stale {
			b.WriteString(StaleStyle.Render("atualizando...") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footerView())

	help := "↑/↓ navegar  •  ←/→ página  •  s tamanho  •  / buscar  •  r recarregar"
	if m.isAdmin() {
		help += "  •  a novo  •  e editar  •  d excluir"
	}
	b.WriteString("\n")
	b.WriteString(centered(100, InfoStyle.Render(help)))

	return BoxStyle.Width(104).Render(b.String())
}

func (m *UsersModel) tableView(rows []models.User) string {
	var b strings.Builder

	header := fmt.Sprintf("%-4s %-24s %-18s %-28s %-16s %-6s",
		"ID", "Nome", "Usuário", "E-mail", "Telefone", "Função")
	b.WriteString(HeaderRowStyle.Render(header))
	b.WriteString("\n")

	for i, u := range rows {
		phone := "—"
		if u.Phone != nil {
			phone = format.Cellphone(*u.Phone)
		}
		line := fmt.Sprintf("%-4d %-24s %-18s %-28s %-16s %-6s",
			u.ID,
			truncate(u.Name, 24),
			truncate(u.Username, 18),
			truncate(u.Email, 28),
			truncate(phone, 16),
			u.Role)
		if i == m.cursor {
			b.WriteString(SelectedRowStyle.Render("▸ " + line))
		} else {
			b.WriteString(RowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *UsersModel) footerView() string {
	q := m.controller.Query()
	total := m.controller.TotalPages()
	if total == 0 {
		total = 1
	}
	return FooterStyle.Render(fmt.Sprintf("Página %d de %d  •  %d por página", q.Page+1, total, q.PageSize))
}

func (m *UsersModel) formView(title string) string {
	var b strings.Builder
	b.WriteString(centered(80, TitleStyle.Render(title)))
	b.WriteString("\n\n")
	b.WriteString(m.form.View(78))
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(centered(80, InfoStyle.Render("Enviando...")))
		b.WriteString("\n")
	}
	b.WriteString(centered(80, InfoStyle.Render("tab alternar  •  enter salvar  •  esc cancelar")))
	return BoxStyle.Width(84).Render(b.String())
}

func (m *UsersModel) confirmView() string {
	var b strings.Builder
	b.WriteString(centered(80, TitleStyle.Render("EXCLUIR USUÁRIO")))
	b.WriteString("\n\n")
	if u := m.selected(); u != nil {
		prompt := fmt.Sprintf("Tem certeza que deseja excluir %q?", u.Name)
		b.WriteString(centered(80, ErrorStyle.Render(prompt)))
		b.WriteString("\n\n")
	}
	b.WriteString(centered(80, InfoStyle.Render("y confirmar  •  n cancelar")))
	return BoxStyle.Width(84).Render(b.String())
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func apiMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func orMessage(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
