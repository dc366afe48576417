package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/theme"
)

// LoginSubmitMsg carries submitted sign-in credentials.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// RegisterSubmitMsg carries a submitted registration.
type RegisterSubmitMsg struct {
	Registration model.Registration
}

// SwitchModeMsg asks the root model to flip between sign-in and
// registration.
type SwitchModeMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
}

// Model is the Bubble Tea model for the sign-in / registration screen.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	registerMode bool
	errMessage   string
	width        int
	height       int
}

// New creates a new auth form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartLogin initializes the sign-in form. A previous failure message
// stays visible until the next submit.
func (m *Model) StartLogin() tea.Cmd {
	m.registerMode = false
	m.fb.password = ""
	m.form = m.buildLoginForm()
	return m.form.Init()
}

// StartRegister initializes the registration form.
func (m *Model) StartRegister() tea.Cmd {
	m.registerMode = true
	m.fb.password = ""
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

// SetError displays a failure message above the form.
func (m *Model) SetError(message string) {
	m.errMessage = message
}

// RegisterMode reports whether the registration variant is active.
func (m Model) RegisterMode() bool {
	return m.registerMode
}

// Update handles messages for the auth form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "ctrl+n" {
		return m, func() tea.Msg { return SwitchModeMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.errMessage = ""
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		// There is nowhere to go back to before signing in, so a
		// cancelled form simply restarts.
		if m.registerMode {
			return m, m.StartRegister()
		}
		return m, m.StartLogin()
	}

	return m, cmd
}

// View renders the auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign In"
	hint := "ctrl+n create an account"
	if m.registerMode {
		titleText = "Create Account"
		hint = "ctrl+n back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render(titleText)}
	if m.errMessage != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.errMessage))
	}
	parts = append(parts, m.form.View(), theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(validateRequired("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
	)).WithWidth(m.formWidth())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&m.fb.username).
			Validate(validateRequired("Username")),
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(validateRequired("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
		huh.NewInput().
			Title("First Name").
			Value(&m.fb.firstName),
		huh.NewInput().
			Title("Last Name").
			Value(&m.fb.lastName),
	)).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.registerMode {
		reg := model.Registration{
			Username:  m.fb.username,
			Email:     m.fb.email,
			Password:  m.fb.password,
			FirstName: m.fb.firstName,
			LastName:  m.fb.lastName,
		}
		return func() tea.Msg { return RegisterSubmitMsg{Registration: reg} }
	}

	email := m.fb.email
	password := m.fb.password
	return func() tea.Msg {
		return LoginSubmitMsg{Email: email, Password: password}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
