package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type errMsg struct{ err error }

type loginSuccessMsg struct{ user User }

type LoginModel struct {
	Client   *Client
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	Busy     bool
}

const (
	inputServer = iota
	inputUsername
	inputPassword
)

func NewLoginModel(c *Client) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputServer] = textinput.New()
	inputs[inputServer].Placeholder = "http://127.0.0.1:8001"
	inputs[inputServer].Prompt = "Server: "
	inputs[inputServer].SetValue(c.BaseURL)

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Placeholder = "admin"
	inputs[inputUsername].Prompt = "Username: "
	inputs[inputUsername].Focus()

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].Prompt = "Password: "

	for i := range inputs {
		inputs[i].PromptStyle = blurredStyle
	}
	inputs[inputUsername].PromptStyle = focusedStyle

	return LoginModel{Client: c, Inputs: inputs, FocusIdx: inputUsername}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				if m.Busy {
					return m, nil
				}
				m.Busy = true
				m.Err = nil
				return m, m.loginCmd()
			}
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus(m.FocusIdx - 1)
			return m, nil
		}
	case errMsg:
		m.Busy = false
		m.Err = msg.err
		return m, nil
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) focus(idx int) {
	n := len(m.Inputs)
	idx = (idx%n + n) % n
	m.Inputs[m.FocusIdx].Blur()
	m.Inputs[m.FocusIdx].PromptStyle = blurredStyle
	m.FocusIdx = idx
	m.Inputs[idx].Focus()
	m.Inputs[idx].PromptStyle = focusedStyle
}

func (m LoginModel) loginCmd() tea.Cmd {
	server := strings.TrimRight(strings.TrimSpace(m.Inputs[inputServer].Value()), "/")
	username := strings.TrimSpace(m.Inputs[inputUsername].Value())
	password := m.Inputs[inputPassword].Value()
	client := m.Client
	return func() tea.Msg {
		if server != "" {
			client.BaseURL = server
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		u, err := client.Login(ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{user: u}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Manager - Login") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}
	b.WriteString("\n\n")
	if m.Busy {
		b.WriteString(blurredStyle.Render("Signing in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+C to quit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
