package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmoraes94/verzel-admin/internal/api"
	"github.com/lmoraes94/verzel-admin/internal/listview"
	"github.com/lmoraes94/verzel-admin/internal/models"
	"github.com/lmoraes94/verzel-admin/internal/session"
	"github.com/lmoraes94/verzel-admin/internal/validation"
)

type carsLoadedMsg struct{}

type carMutatedMsg struct {
	message string
	err     error
}

type CarsModel struct {
	controller *listview.Controller[models.Car]
	client     *api.Client
	sess       *session.Manager
	events     *Events

	mode        screenMode
	cursor      int
	searchInput string
	imageInput  string
	form        form
	editingID   int64
	submitting  bool
	loaded      bool
}

func NewCarsModel(client *api.Client, cache *listview.Cache, sess *session.Manager, events *Events) *CarsModel {
	fetch := func(ctx context.Context, key listview.Key) (*models.ListResult[models.Car], error) {
		return api.List[models.Car](ctx, client, key.Resource, key.Page, key.PageSize, key.Search)
	}
	return &CarsModel{
		controller: listview.NewController(models.ResourceCars, cache, fetch),
		client:     client,
		sess:       sess,
		events:     events,
	}
}

func (m *CarsModel) Init() tea.Cmd {
	return nil
}

func (m *CarsModel) Reset() {
	m.loaded = false
	m.mode = modeList
	m.cursor = 0
}

func loadCarsCmd(c *listview.Controller[models.Car]) tea.Cmd {
	return func() tea.Msg {
		_ = c.Load(context.Background())
		return carsLoadedMsg{}
	}
}

func (m *CarsModel) notify(message string, severity session.Severity) {
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

func (m *CarsModel) createCarCmd(payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Create(context.Background(), models.ResourceCars, payload)
		if err != nil {
			return carMutatedMsg{err: err}
		}
		return carMutatedMsg{message: resp.Message}
	}
}

func (m *CarsModel) updateCarCmd(id int64, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Update(context.Background(), models.ResourceCars, id, payload)
		if err != nil {
			return carMutatedMsg{err: err}
		}
		return carMutatedMsg{message: resp.Message}
	}
}

func (m *CarsModel) deleteCarCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Delete(context.Background(), models.ResourceCars, id)
		if err != nil {
			return carMutatedMsg{err: err}
		}
		return carMutatedMsg{message: resp.Message}
	}
}

func (m *CarsModel) uploadImageCmd(id int64, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return carMutatedMsg{err: err}
		}
		defer f.Close()
		resp, err := m.client.Upload(context.Background(), models.ResourceCars, id, "image", filepath.Base(path), f)
		if err != nil {
			return carMutatedMsg{err: err}
		}
		return carMutatedMsg{message: resp.Message}
	}
}

func (m *CarsModel) removeImageCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.RemoveUpload(context.Background(), models.ResourceCars, id, "image")
		if err != nil {
			return carMutatedMsg{err: err}
		}
		return carMutatedMsg{message: resp.Message}
	}
}

func (m *CarsModel) rows() []models.Car {
	result, _ := m.controller.Data()
	if result == nil {
		return nil
	}
	return result.Rows
}

func (m *CarsModel) selected() *models.Car {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return &rows[m.cursor]
}

func (m *CarsModel) isAdmin() bool {
	u := m.sess.User()
	return u != nil && u.IsAdmin()
}

func (m *CarsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case carsLoadedMsg:
		m.loaded = true
		if rows := m.rows(); m.cursor >= len(rows) && len(rows) > 0 {
			m.cursor = len(rows) - 1
		}
		return m, nil

	case carMutatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.notify(apiMessage(msg.err, "Não foi possível concluir a operação."), session.SeverityError)
			return m, nil
		}
		m.notify(orMessage(msg.message, "Operação concluída."), session.SeveritySuccess)
		m.mode = modeList
		m.form.clear()
		m.controller.Invalidate()
		return m, loadCarsCmd(m.controller)

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
		case modeImagePath:
			return m.updateImageInput(msg)
		default:
			return m.updateList(msg)
		}
	}

	if !m.loaded && !m.controller.Loading() {
		return m, loadCarsCmd(m.controller)
	}
	return m, nil
}

func (m *CarsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			return m, loadCarsCmd(m.controller)
		}
	case "left", "p":
		if m.controller.CanPrev() {
			m.controller.PrevPage()
			m.cursor = 0
			return m, loadCarsCmd(m.controller)
		}
	case "home":
		m.controller.FirstPage()
		m.cursor = 0
		return m, loadCarsCmd(m.controller)
	case "end":
		m.controller.LastPage()
		m.cursor = 0
		return m, loadCarsCmd(m.controller)
	case "s":
		m.controller.CyclePageSize()
		m.cursor = 0
		return m, loadCarsCmd(m.controller)
	case "/":
		m.mode = modeSearch
		m.searchInput = m.controller.Query().Search
	case "r":
		m.controller.Invalidate()
		return m, loadCarsCmd(m.controller)
	case "a":
		if m.isAdmin() {
			m.mode = modeCreate
			m.form = newCarForm(nil)
		}
	case "e", "enter":
		if c := m.selected(); c != nil && m.isAdmin() {
			m.mode = modeEdit
			m.editingID = c.ID
			m.form = newCarForm(c)
		}
	case "d":
		if m.selected() != nil && m.isAdmin() {
			m.mode = modeConfirmDelete
		}
	case "i":
		if m.selected() != nil && m.isAdmin() {
			m.mode = modeImagePath
			m.imageInput = ""
		}
	case "x":
		if c := m.selected(); c != nil && c.Image != "" && m.isAdmin() {
			m.submitting = true
			return m, m.removeImageCmd(c.ID)
		}
	}

	if !m.loaded && !m.controller.Loading() {
		return m, loadCarsCmd(m.controller)
	}
	return m, nil
}

func (m *CarsModel) updateImageInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		c := m.selected()
		if c != nil && m.imageInput != "" {
			m.mode = modeList
			m.submitting = true
			return m, m.uploadImageCmd(c.ID, strings.TrimSpace(m.imageInput))
		}
		m.mode = modeList
	case "esc":
		m.mode = modeList
		m.imageInput = ""
	case "backspace":
		if len(m.imageInput) > 0 {
			m.imageInput = m.imageInput[:len(m.imageInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.imageInput += msg.String()
		}
	}
	return m, nil
}

func (m *CarsModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.controller.SetSearch(m.searchInput)
		m.cursor = 0
		return m, loadCarsCmd(m.controller)
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

func (m *CarsModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (m *CarsModel) submitForm() (tea.Model, tea.Cmd) {
	price, err := strconv.ParseFloat(strings.ReplaceAll(m.form.value("Price"), ",", "."), 64)
	if err != nil {
		m.form.errs = validation.FieldErrors{"Price": "Preço inválido."}
		return m, nil
	}

	f := validation.CarForm{
		Name:  m.form.value("Name"),
		Brand: m.form.value("Brand"),
		Model: m.form.value("Model"),
		Price: price,
	}
	if err := validation.Struct(f); err != nil {
		if errs, ok := err.(validation.FieldErrors); ok {
			m.form.errs = errs
		}
		return m, nil
	}
	m.form.errs = nil

	payload := map[string]any{
		"name":  f.Name,
		"brand": f.Brand,
		"model": f.Model,
		"price": f.Price,
	}
	m.submitting = true
	if m.mode == modeCreate {
		return m, m.createCarCmd(payload)
	}
	return m, m.updateCarCmd(m.editingID, payload)
}

func (m *CarsModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		c := m.selected()
		m.mode = modeList
		if c != nil {
			m.submitting = true
			return m, m.deleteCarCmd(c.ID)
		}
	case "n", "esc":
		m.mode = modeList
	}
	return m, nil
}

func newCarForm(c *models.Car) form {
	f := newForm(
		field{label: "Nome", name: "Name"},
		field{label: "Marca", name: "Brand"},
		field{label: "Modelo", name: "Model"},
		field{label: "Preço", name: "Price"},
	)
	if c != nil {
		f.setValue("Name", c.Name)
		f.setValue("Brand", c.Brand)
		f.setValue("Model", c.Model)
		f.setValue("Price", strconv.FormatFloat(c.Price, 'f', 2, 64))
	}
	return f
}

func (m *CarsModel) View() string {
	switch m.mode {
	case modeCreate:
		return m.formView("NOVO CARRO")
	case modeEdit:
		return m.formView("EDITAR CARRO")
	case modeConfirmDelete:
		return m.confirmView()
	default:
		return m.listView()
	}
}

func (m *CarsModel) listView() string {
	var b strings.Builder

	b.WriteString(centered(100, TitleStyle.Render("CARROS")))
	b.WriteString("\n\n")

	if m.mode == modeSearch {
		prompt := FocusedInputStyle.Width(50).Render(m.searchInput)
		b.WriteString("Buscar: " + prompt + "\n\n")
	} else if m.mode == modeImagePath {
		prompt := FocusedInputStyle.Width(60).Render(m.imageInput)
		b.WriteString("Arquivo da imagem: " + prompt + "\n\n")
	} else if q := m.controller.Query().Search; q != "" {
		b.WriteString(InfoStyle.Render("Filtro: "+q) + "\n\n")
	}

	result, stale := m.controller.Data()
	switch {
	case m.controller.Loading() && result == nil:
		b.WriteString(centered(100, InfoStyle.Render("Carregando carros...")))
		b.WriteString("\n")
	case m.controller.Err() != nil && result == nil:
		b.WriteString(centered(100, ErrorStyle.Render("Erro: "+m.controller.Err().Error())))
		b.WriteString("\n")
	case result == nil || len(result.Rows) == 0:
		b.WriteString(centered(100, InfoStyle.Render("Nenhum carro encontrado.")))
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
		help += "  •  a novo  •  e editar  •  d excluir  •  i imagem  •  x remover imagem"
	}
	b.WriteString("\n")
	b.WriteString(centered(100, InfoStyle.Render(help)))

	return BoxStyle.Width(104).Render(b.String())
}

func (m *CarsModel) tableView(rows []models.Car) string {
	var b strings.Builder

	header := fmt.Sprintf("%-4s %-24s %-16s %-16s %14s %-6s", "ID", "Nome", "Marca", "Modelo", "Preço", "Imagem")
	b.WriteString(HeaderRowStyle.Render(header))
	b.WriteString("\n")

	for i, c := range rows {
		image := "—"
		if c.Image != "" {
			image = "✓"
		}
		line := fmt.Sprintf("%-4d %-24s %-16s %-16s %14s %-6s",
			c.ID,
			truncate(c.Name, 24),
			truncate(c.Brand, 16),
			truncate(c.Model, 16),
			fmt.Sprintf("R$ %.2f", c.Price),
			image)
		if i == m.cursor {
			b.WriteString(SelectedRowStyle.Render("▸ " + line))
		} else {
			b.WriteString(RowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *CarsModel) footerView() string {
	q := m.controller.Query()
	total := m.controller.TotalPages()
	if total == 0 {
		total = 1
	}
	return FooterStyle.Render(fmt.Sprintf("Página %d de %d  •  %d por página", q.Page+1, total, q.PageSize))
}

func (m *CarsModel) formView(title string) string {
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

func (m *CarsModel) confirmView() string {
	var b strings.Builder
	b.WriteString(centered(80, TitleStyle.Render("EXCLUIR CARRO")))
	b.WriteString("\n\n")
	if c := m.selected(); c != nil {
		prompt := fmt.Sprintf("Tem certeza que deseja excluir %q?", c.Name)
		b.WriteString(centered(80, ErrorStyle.Render(prompt)))
		b.WriteString("\n\n")
	}
	b.WriteString(centered(80, InfoStyle.Render("y confirmar  •  n cancelar")))
	return BoxStyle.Width(84).Render(b.String())
}
