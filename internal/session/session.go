// Package session owns the authenticated-user lifecycle: hydration from the
// persisted cookie store, login/logout, profile and avatar mutations, and
// the notifications those mutations surface.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/lmoraes94/verzel-admin/internal/api"
	"github.com/lmoraes94/verzel-admin/internal/models"
)

type State int

const (
	StateUninitialized State = iota
	StateHydrating
	StateAuthenticated
	StateAnonymous
)

// Routes the manager navigates to. The navigator decides what a route
// means; in the TUI it selects a view.
const (
	RouteLanding = "/"
	RouteUsers   = "/users"
	RouteCars    = "/cars"
	RouteProfile = "/profile"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// NotificationDuration is how long a toast stays visible.
const NotificationDuration = 2500 * time.Millisecond

type Notification struct {
	Title       string
	Description string
	Severity    Severity
	Duration    time.Duration
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// AuthError is a rejected login: null user or a non-2xx status.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("session: login rejected: %s", e.Message)
}

var ErrNotAuthenticated = errors.New("session: no authenticated user")

// Manager is the session state machine:
// Uninitialized -> Hydrating -> {Authenticated | Anonymous}, then
// Authenticated <-> Anonymous via login/logout.
type Manager struct {
	api            *api.Client
	store          *Store
	notifier       Notifier
	nav            Navigator
	hydrationDelay time.Duration
	tokenTTL       time.Duration

	mu      sync.RWMutex
	state   State
	user    *models.User
	loading bool
}

type Option func(*Manager)

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithNavigator(nav Navigator) Option {
	return func(m *Manager) { m.nav = nav }
}

func WithHydrationDelay(d time.Duration) Option {
	return func(m *Manager) { m.hydrationDelay = d }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.tokenTTL = ttl }
}

func NewManager(client *api.Client, store *Store, opts ...Option) *Manager {
	m := &Manager{
		api:            client,
		store:          store,
		notifier:       NotifierFunc(func(Notification) {}),
		nav:            NavigatorFunc(func(string) {}),
		hydrationDelay: 1200 * time.Millisecond,
		tokenTTL:       7 * 24 * time.Hour,
		state:          StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate restores the session from the cookie store. It always waits the
// configured minimum delay before resolving so the caller can gate first
// render on it without flashing. Session becomes Authenticated only when
// both cookies are present and the token has not expired.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.setState(StateHydrating)

	userJSON, token, err := m.store.Load()
	if err != nil {
		logrus.WithError(err).Warn("failed to read session store")
	}

	select {
	case <-time.After(m.hydrationDelay):
	case <-ctx.Done():
		m.setState(StateAnonymous)
		return ctx.Err()
	}

	if userJSON != "" && token != "" && !tokenExpired(token) {
		var user models.User
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			m.api.SetToken(token)
			m.mu.Lock()
			m.user = &user
			m.state = StateAuthenticated
			m.mu.Unlock()
			return nil
		}
		logrus.Warn("discarding unreadable persisted user")
	}

	m.setState(StateAnonymous)
	return nil
}

// tokenExpired honors an exp claim when the token happens to be a JWT.
// Opaque tokens are governed by the cookie TTL alone.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}

// Login issues the credentials POST. On rejection (transport failure,
// non-2xx, or a null user in a 2xx body) the session stays Anonymous, the
// caller is routed to the landing view and an error toast is emitted.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setLoading(true)

	resp, err := m.api.Login(ctx, email, password)
	if err != nil || resp.User == nil {
		m.setLoading(false)

		msg := "Usuário não encontrado."
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}

		m.nav.Navigate(RouteLanding)
		m.notifyError(msg)
		return &AuthError{Message: msg}
	}

	m.mu.Lock()
	m.user = resp.User
	m.state = StateAuthenticated
	m.loading = false
	m.mu.Unlock()

	m.api.SetToken(resp.Token)
	m.persistUser(resp.User)
	if err := m.store.SetToken(resp.Token, m.tokenTTL); err != nil {
		logrus.WithError(err).Warn("failed to persist auth token")
	}

	m.notifySuccess(orDefault(resp.Message, "Login realizado."))
	m.nav.Navigate(RouteUsers)
	return nil
}

// Logout clears the in-memory user and both persisted cookies. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	m.api.ClearToken()
	if err := m.store.Clear(); err != nil {
		logrus.WithError(err).Warn("failed to clear session store")
	}

	m.nav.Navigate(RouteLanding)
	m.notifySuccess("Usuário desconectado.")
}

// ProfileUpdate carries the profile form. An empty string means "keep the
// current value" for every field; an empty Password is omitted from the
// payload entirely (absence means no change at the API boundary).
type ProfileUpdate struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Role     string
	Password string
}

func (m *Manager) UpdateProfile(ctx context.Context, upd ProfileUpdate) error {
	current := m.User()
	if current == nil {
		return ErrNotAuthenticated
	}

	payload := map[string]any{
		"name":     orDefault(upd.Name, current.Name),
		"username": orDefault(upd.Username, current.Username),
		"email":    orDefault(upd.Email, current.Email),
		"phone":    resolvePhone(upd.Phone, current.Phone),
		"role":     orDefault(upd.Role, string(current.Role)),
	}
	if upd.Password != "" {
		payload["password"] = upd.Password
	}

	resp, err := m.api.Update(ctx, models.ResourceUsers, current.ID, payload)
	if err != nil {
		m.notifyError(errorMessage(err, "Não foi possível atualizar o usuário."))
		return err
	}

	m.adoptUser(resp.User)
	m.notifySuccess(orDefault(resp.Message, "Usuário atualizado."))
	return nil
}

func (m *Manager) RemoveAvatar(ctx context.Context) error {
	current := m.User()
	if current == nil {
		return ErrNotAuthenticated
	}

	resp, err := m.api.RemoveUpload(ctx, models.ResourceUsers, current.ID, "avatar")
	if err != nil {
		m.notifyError(errorMessage(err, "Não foi possível remover o avatar."))
		return err
	}

	m.adoptUser(resp.User)
	m.notifySuccess(orDefault(resp.Message, "Avatar removido."))
	return nil
}

func (m *Manager) ChangeAvatar(ctx context.Context, filename string, file io.Reader) error {
	current := m.User()
	if current == nil {
		return ErrNotAuthenticated
	}

	resp, err := m.api.Upload(ctx, models.ResourceUsers, current.ID, "avatar", filename, file)
	if err != nil {
		m.notifyError(errorMessage(err, "Não foi possível alterar o avatar."))
		return err
	}

	m.adoptUser(resp.User)
	m.notifySuccess(orDefault(resp.Message, "Avatar atualizado."))
	return nil
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Signed reports whether a user is currently authenticated.
func (m *Manager) Signed() bool {
	return m.State() == StateAuthenticated
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// User returns a copy of the current user, or nil when anonymous.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// adoptUser replaces the in-memory user and re-persists it. A mutation
// response without a user body leaves the session untouched.
func (m *Manager) adoptUser(user *models.User) {
	if user == nil {
		return
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	m.persistUser(user)
}

func (m *Manager) persistUser(user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		logrus.WithError(err).Warn("failed to serialize user for persistence")
		return
	}
	if err := m.store.SetUser(string(data)); err != nil {
		logrus.WithError(err).Warn("failed to persist auth user")
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) notifySuccess(description string) {
	m.notifier.Notify(Notification{
		Title:       "Sucesso.",
		Description: description,
		Severity:    SeveritySuccess,
		Duration:    NotificationDuration,
	})
}

func (m *Manager) notifyError(description string) {
	m.notifier.Notify(Notification{
		Title:       "Erro.",
		Description: description,
		Severity:    SeverityError,
		Duration:    NotificationDuration,
	})
}

func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func resolvePhone(updated string, current *string) *string {
	if updated != "" {
		return &updated
	}
	return current
}
