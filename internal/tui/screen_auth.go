package tui

import (
	"errors"
	"strings"

	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginFocusEmail = iota
	loginFocusPassword
	loginFocusSubmit
	loginFocusRegister
	loginFocusCount
)

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
}

func newLoginForm(lastEmail string) *loginForm {
	f := &loginForm{
		email:    newInput("Email", 40),
		password: newInput("Password", 40),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	f.email.SetValue(lastEmail)
	if strings.TrimSpace(lastEmail) != "" {
		f.focus = loginFocusPassword
	}
	return f
}

func (f *loginForm) focusField() tea.Cmd {
	f.email.Blur()
	f.password.Blur()
	switch f.focus {
	case loginFocusEmail:
		return f.email.Focus()
	case loginFocusPassword:
		return f.password.Focus()
	}
	return nil
}

func (m *appModel) updateLogin(msg tea.KeyMsg) tea.Cmd {
	f := m.login
	if f == nil || f.busy {
		return nil
	}
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % loginFocusCount
		return f.focusField()
	case "shift+tab", "up":
		f.focus = (f.focus + loginFocusCount - 1) % loginFocusCount
		return f.focusField()
	case "enter":
		switch f.focus {
		case loginFocusEmail:
			f.focus = loginFocusPassword
			return f.focusField()
		case loginFocusRegister:
			m.stack.Push(nav.Register, nav.Params{})
			return nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	switch f.focus {
	case loginFocusEmail:
		f.email, cmd = f.email.Update(msg)
	case loginFocusPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (m *appModel) submitLogin() tea.Cmd {
	f := m.login
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()
	if email == "" || password == "" {
		f.err = mutate.MsgCredentialsRequired
		return nil
	}
	f.err = ""
	f.busy = true
	return tea.Batch(m.spinner.Tick, m.loginCmd(email, password))
}

func (m *appModel) applyLogin(msg loginDoneMsg) {
	f := m.login
	if f != nil {
		f.busy = false
	}
	if msg.err != nil {
		var rej mutate.RejectedError
		if !errors.As(msg.err, &rej) {
			m.log.Warn().Err(msg.err).Msg("login failed")
		}
		if f != nil {
			f.err = msg.err.Error()
		}
		return
	}
	if m.opts.RememberEmail != nil {
		m.opts.RememberEmail(msg.email)
	}
	m.login = nil
	m.connect(msg.sess)
	m.stack.Reset(nav.DrawerRoot, nav.Params{})
}

func (m appModel) viewLogin() string {
	f := m.login
	if f == nil {
		return ""
	}
	w := 44
	lines := []string{
		styleTitle().Render("Sign in"),
		"",
		fieldLabel("Email", f.focus == loginFocusEmail),
		renderInputLine(w, f.email.View()),
		fieldLabel("Password", f.focus == loginFocusPassword),
		renderInputLine(w, f.password.View()),
		"",
	}
	submit := "Login"
	if f.busy {
		submit = m.spinner.View() + " Logging in"
	}
	lines = append(lines, renderButton(submit, f.focus == loginFocusSubmit))
	if f.err != "" {
		lines = append(lines, "", styleError().Render(f.err))
	}
	lines = append(lines, "", "Don't have an account? "+renderButton("Register", f.focus == loginFocusRegister))
	return strings.Join(lines, "\n")
}

const (
	registerFocusName = iota
	registerFocusEmail
	registerFocusPassword
	registerFocusSubmit
	registerFocusCount
)

// registerForm collects sign-up details. There is no sign-up call; submitting
// only validates.
type registerForm struct {
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	err      string
	info     string
}

const msgRegisterUnavailable = "Registration is not available yet. Ask an admin for an account."

func newRegisterForm() *registerForm {
	f := &registerForm{
		name:     newInput("Full name", 40),
		email:    newInput("Email", 40),
		password: newInput("Password", 40),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	return f
}

func (f *registerForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.name, &f.email, &f.password}
}

func (f *registerForm) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i, in := range f.inputs() {
		if i == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (m *appModel) updateRegister(msg tea.KeyMsg) tea.Cmd {
	f := m.register
	if f == nil {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.stack.Pop()
		m.register = nil
		return nil
	case "tab", "down":
		f.focus = (f.focus + 1) % registerFocusCount
		return f.focusField()
	case "shift+tab", "up":
		f.focus = (f.focus + registerFocusCount - 1) % registerFocusCount
		return f.focusField()
	case "enter":
		if f.focus < registerFocusSubmit {
			f.focus++
			return f.focusField()
		}
		f.info = ""
		if strings.TrimSpace(f.name.Value()) == "" || strings.TrimSpace(f.email.Value()) == "" || f.password.Value() == "" {
			f.err = "Please fill in all fields"
			return nil
		}
		f.err = ""
		f.info = msgRegisterUnavailable
		return nil
	}
	if f.focus < registerFocusSubmit {
		in := f.inputs()[f.focus]
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return cmd
	}
	return nil
}

func (m appModel) viewRegister() string {
	f := m.register
	if f == nil {
		return ""
	}
	w := 44
	lines := []string{
		styleTitle().Render("Create an account"),
		"",
		fieldLabel("Full name", f.focus == registerFocusName),
		renderInputLine(w, f.name.View()),
		fieldLabel("Email", f.focus == registerFocusEmail),
		renderInputLine(w, f.email.View()),
		fieldLabel("Password", f.focus == registerFocusPassword),
		renderInputLine(w, f.password.View()),
		"",
		renderButton("Register", f.focus == registerFocusSubmit),
	}
	if f.err != "" {
		lines = append(lines, "", styleError().Render(f.err))
	}
	if f.info != "" {
		lines = append(lines, "", styleMuted().Render(f.info))
	}
	return strings.Join(lines, "\n")
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return styleTitle().Render(label)
	}
	return styleMuted().Render(label)
}
