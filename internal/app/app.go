// Package app hosts the root Bubble Tea model: view routing, session
// gating, and the wiring between the task provider, the notification
// center, and the form views.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mzurek/taskflow/internal/api"
	"github.com/mzurek/taskflow/internal/keys"
	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/notify"
	"github.com/mzurek/taskflow/internal/session"
	"github.com/mzurek/taskflow/internal/tasks"
	"github.com/mzurek/taskflow/internal/ui"
	"github.com/mzurek/taskflow/internal/ui/authform"
	helpview "github.com/mzurek/taskflow/internal/ui/help"
	notifview "github.com/mzurek/taskflow/internal/ui/notifications"
	"github.com/mzurek/taskflow/internal/ui/profileform"
	"github.com/mzurek/taskflow/internal/ui/taskform"
	"github.com/mzurek/taskflow/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewList
	ViewTaskForm
	ViewProfile
	ViewNotifications
	ViewHelp
)

// authResultMsg carries the outcome of a login or register attempt.
type authResultMsg struct {
	err error
}

// profileResultMsg carries the outcome of a profile update.
type profileResultMsg struct {
	err error
}

// tickMsg drives the periodic repaint that surfaces notifications
// added by the background due-date scanner.
type tickMsg struct{}

// Deps bundles the services the root model composes.
type Deps struct {
	Session  *session.Store
	Provider *tasks.Provider
	Center   *notify.Center
	Notifier *notify.DueNotifier
}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	deps         Deps
	keys         *keys.KeyMap

	authView    authform.Model
	taskList    tasklist.Model
	taskForm    taskform.Model
	profileView profileform.Model
	notifView   notifview.Model
	helpView    helpview.Model

	// initCmd is built in New alongside the starting view. Init runs
	// on a model copy Bubble Tea discards, so any form constructed
	// there would be lost.
	initCmd tea.Cmd

	ready bool
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewLogin,
		deps:        deps,
		keys:        k,
		authView:    authform.New(80, 24),
		taskList:    tasklist.New(deps.Provider, k, 80, 24),
		taskForm:    taskform.New(80, 24),
		profileView: profileform.New(80, 24),
		notifView:   notifview.New(deps.Center, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}

	if deps.Session.State() == session.Authenticated {
		m.currentView = ViewList
	} else {
		m.initCmd = m.authView.StartLogin()
	}
	return m
}

// Init starts either at the sign-in screen or, when a persisted
// session was restored, directly on the task list.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewList {
		m.deps.Notifier.Start()
		return tea.Batch(m.taskList.Init(), m.tick())
	}
	return tea.Batch(m.initCmd, m.tick())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.authView.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.profileView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case tickMsg:
		// Repaint so scanner notifications show up in the badge,
		// and drop back to the login screen if the session died.
		if m.sessionLost() {
			mdl, cmd := m.toLogin("Session expired. Please sign in again.")
			return mdl, tea.Batch(cmd, m.tick())
		}
		return m, m.tick()

	case authform.LoginSubmitMsg:
		return m, m.login(msg.Email, msg.Password)

	case authform.RegisterSubmitMsg:
		return m, m.register(msg.Registration)

	case authform.SwitchModeMsg:
		if m.authView.RegisterMode() {
			return m, m.authView.StartLogin()
		}
		return m, m.authView.StartRegister()

	case authResultMsg:
		if msg.err != nil {
			m.authView.SetError(authErrorText(msg.err))
			if m.authView.RegisterMode() {
				return m, m.authView.StartRegister()
			}
			return m, m.authView.StartLogin()
		}
		m.currentView = ViewList
		m.deps.Notifier.Start()
		return m, m.taskList.Init()

	case tasklist.NewTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartCreate()

	case tasklist.EditTaskMsg:
		draft, err := m.deps.Provider.BeginEdit(msg.TaskID)
		if err != nil {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartEdit(draft)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Input)

	case taskform.TaskEditedMsg:
		m.currentView = ViewList
		return m, m.commitEdit(msg.Patch)

	case taskform.TaskFormCancelMsg:
		m.deps.Provider.CancelEdit()
		m.currentView = ViewList
		return m, nil

	case profileform.ProfileSubmitMsg:
		m.currentView = ViewList
		return m, m.updateProfile(msg.Patch)

	case profileform.ProfileCancelMsg:
		m.currentView = ViewList
		return m, nil

	case profileResultMsg:
		if msg.err == nil {
			m.deps.Center.Add("Profile updated", model.KindSuccess)
		} else if !m.deps.Session.HandleAuthFailure(msg.err) {
			m.deps.Center.Add("Failed to update profile", model.KindError)
		}
		if m.sessionLost() {
			return m.toLogin("Session expired. Please sign in again.")
		}
		return m, nil

	case tasklist.TasksRefreshedMsg, tasklist.TaskMutatedMsg:
		if m.sessionLost() {
			return m.toLogin("Session expired. Please sign in again.")
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case notifview.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if mdl, cmd, handled := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys intercepts keys that work regardless of the view
// that has focus. Form views keep all their input except ctrl+c.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.deps.Notifier.Stop()
		return m, tea.Quit, true
	}

	// Everything below would swallow typed characters inside forms.
	inForm := m.currentView == ViewLogin ||
		m.currentView == ViewTaskForm ||
		m.currentView == ViewProfile
	if inForm {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewList {
			m.deps.Notifier.Stop()
			return m, tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "N":
		if m.currentView == ViewNotifications {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m, m.notifView.Init(), true

	case "P":
		if m.currentView == ViewList {
			user := m.deps.Session.User()
			if user == nil {
				return m, nil, true
			}
			m.previousView = m.currentView
			m.currentView = ViewProfile
			return m, m.profileView.Start(*user), true
		}

	case "ctrl+l":
		if m.currentView != ViewLogin {
			m.deps.Notifier.Stop()
			m.deps.Session.Logout()
			mdl, cmd := m.toLogin("")
			return mdl, cmd, true
		}

	case "esc":
		if m.currentView == ViewHelp || m.currentView == ViewNotifications {
			m.currentView = m.previousView
			return m, nil, true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.authView, cmd = m.authView.Update(msg)
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("TaskFlow", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.authView.View()
	case ViewList:
		return m.taskList.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerStatus summarizes the signed-in user and unread notifications.
func (m Model) headerStatus() string {
	user := m.deps.Session.User()
	if user == nil {
		return "signed out"
	}
	status := user.Username
	if unread := m.deps.Center.UnreadCount(); unread > 0 {
		status = fmt.Sprintf("%s [%d new]", status, unread)
	}
	return status
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+n switch mode | ctrl+c quit"
	case ViewTaskForm, ViewProfile:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "enter mark read | x dismiss | esc back"
	case ViewHelp:
		return "? close help | esc back"
	default:
		if summary := m.taskList.FilterSummary(); summary != "" {
			return summary + " | 1 clear"
		}
		return "q quit | ? help | n new | / search | 1-6 tiles | tab sort | N notifications"
	}
}

// login returns a command that attempts to sign in.
func (m Model) login(email, password string) tea.Cmd {
	s := m.deps.Session
	return func() tea.Msg {
		return authResultMsg{err: s.Login(context.Background(), email, password)}
	}
}

// register returns a command that attempts to create an account.
func (m Model) register(reg model.Registration) tea.Cmd {
	s := m.deps.Session
	return func() tea.Msg {
		return authResultMsg{err: s.Register(context.Background(), reg)}
	}
}

// createTask returns a command that creates a task through the provider.
func (m Model) createTask(input model.TaskInput) tea.Cmd {
	p := m.deps.Provider
	return func() tea.Msg {
		_, _ = p.Create(context.Background(), input)
		return tasklist.TaskMutatedMsg{}
	}
}

// commitEdit returns a command that commits the pending edit draft.
func (m Model) commitEdit(patch model.TaskPatch) tea.Cmd {
	p := m.deps.Provider
	return func() tea.Msg {
		_ = p.CommitEdit(context.Background(), patch)
		return tasklist.TaskMutatedMsg{}
	}
}

// updateProfile returns a command that saves the profile patch.
func (m Model) updateProfile(patch model.ProfilePatch) tea.Cmd {
	s := m.deps.Session
	return func() tea.Msg {
		return profileResultMsg{err: s.UpdateProfile(context.Background(), patch)}
	}
}

// sessionLost reports whether an authenticated view is showing while
// the session has been expired underneath it.
func (m Model) sessionLost() bool {
	return m.currentView != ViewLogin &&
		m.deps.Session.State() != session.Authenticated
}

// toLogin abandons the current view and returns to the sign-in screen.
func (m Model) toLogin(message string) (tea.Model, tea.Cmd) {
	m.deps.Notifier.Stop()
	m.deps.Provider.CancelEdit()
	m.currentView = ViewLogin
	if message != "" {
		m.authView.SetError(message)
	}
	return m, m.authView.StartLogin()
}

// tick schedules the next periodic repaint.
func (m Model) tick() tea.Cmd {
	return tea.Tick(30*time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// authErrorText maps an auth failure to the message shown above the
// sign-in form.
func authErrorText(err error) string {
	switch {
	case api.IsAuthError(err):
		return "Invalid email or password"
	case errors.Is(err, api.ErrConflict):
		return "An account with this email or username already exists"
	default:
		return "Could not reach the server. Please try again."
	}
}
