package profileform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/theme"
)

// ProfileSubmitMsg carries a submitted profile update.
type ProfileSubmitMsg struct {
	Patch model.ProfilePatch
}

// ProfileCancelMsg is dispatched when the user cancels the form.
type ProfileCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	firstName string
	lastName  string
	phone     string
	location  string
	avatar    string
}

// Model is the Bubble Tea model for the profile editor. Email,
// username, and password are deliberately absent: the service rejects
// changes to them through this path.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new profile form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form prefilled from the current profile.
func (m *Model) Start(user model.User) tea.Cmd {
	m.fb.firstName = user.FirstName
	m.fb.lastName = user.LastName
	m.fb.phone = user.Phone
	m.fb.location = user.Location
	m.fb.avatar = user.Avatar
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the profile form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ProfileCancelMsg{} }
	}

	return m, cmd
}

// View renders the profile form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Edit Profile") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First Name").Value(&m.fb.firstName),
		huh.NewInput().Title("Last Name").Value(&m.fb.lastName),
		huh.NewInput().Title("Phone").Value(&m.fb.phone),
		huh.NewInput().Title("Location").Value(&m.fb.location),
		huh.NewInput().Title("Avatar URL").Value(&m.fb.avatar),
	)).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	firstName := m.fb.firstName
	lastName := m.fb.lastName
	phone := m.fb.phone
	location := m.fb.location
	avatar := m.fb.avatar

	patch := model.ProfilePatch{
		FirstName: &firstName,
		LastName:  &lastName,
		Phone:     &phone,
		Location:  &location,
		Avatar:    &avatar,
	}
	return func() tea.Msg { return ProfileSubmitMsg{Patch: patch} }
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
