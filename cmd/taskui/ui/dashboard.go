package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dataLoadedMsg struct {
	tasks []Task
	stats Stats
}

type statusChangedMsg struct{ task Task }

type DashboardModel struct {
	Client *Client
	Table  table.Model
	Tasks  []Task
	Stats  Stats
	Notice string
	Err    error
}

func NewDashboardModel(c *Client, height int) DashboardModel {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 32},
		{Title: "Status", Width: 12},
		{Title: "Deadline", Width: 16},
		{Title: "Assignee", Width: 16},
	}
	if height <= 0 {
		height = 24
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-12, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{Client: c, Table: t}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m DashboardModel) refreshCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tasks, err := client.Tasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		stats, err := client.Stats(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dataLoadedMsg{tasks: tasks, stats: stats}
	}
}

func (m DashboardModel) cycleStatusCmd(t Task) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		updated, err := client.SetStatus(ctx, t.ID, NextStatus(t.Status))
		if err != nil {
			return errMsg{err}
		}
		return statusChangedMsg{task: updated}
	}
}

func (m DashboardModel) selected() (Task, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Tasks) {
		return Task{}, false
	}
	return m.Tasks[i], true
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.Notice = ""
			return m, m.refreshCmd()
		case "s":
			if t, ok := m.selected(); ok {
				return m, m.cycleStatusCmd(t)
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}

	case dataLoadedMsg:
		m.Err = nil
		m.Tasks = msg.tasks
		m.Stats = msg.stats
		m.Table.SetRows(taskRows(msg.tasks))
		return m, nil

	case statusChangedMsg:
		m.Notice = fmt.Sprintf("%q is now %s", msg.task.Title, msg.task.Status)
		return m, m.refreshCmd()

	case errMsg:
		m.Err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func taskRows(tasks []Task) []table.Row {
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		id := t.ID
		if len(id) > 8 {
			id = id[:8]
		}
		assignee := t.AssignedTo
		if t.AssignedToUser != nil {
			assignee = t.AssignedToUser.Username
		}
		rows = append(rows, table.Row{id, t.Title, t.Status, t.Deadline.Local().Format("2006-01-02 15:04"), assignee})
	}
	return rows
}

func (m DashboardModel) statsView() string {
	box := func(label string, n int64) string {
		return statStyle.Render(fmt.Sprintf("%s\n%d", label, n))
	}
	var boxes []string
	if m.Client.User.Role == "admin" {
		boxes = append(boxes, box("Users", m.Stats.TotalUsers), box("Tasks", m.Stats.TotalTasks))
	} else {
		boxes = append(boxes, box("My tasks", m.Stats.MyTasks))
	}
	boxes = append(boxes,
		box("Pending", m.Stats.PendingTasks),
		box("In progress", m.Stats.InProgressTasks),
		box("Completed", m.Stats.CompletedTasks),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m DashboardModel) View() string {
	var b strings.Builder
	u := m.Client.User
	b.WriteString(titleStyle.Render(fmt.Sprintf("Task Manager - %s (%s)", u.Username, u.Role)) + "\n\n")
	b.WriteString(m.statsView() + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("r refresh, s cycle status, q quit, up/down to navigate"))
	if m.Notice != "" {
		b.WriteString("\n" + statusMessageStyle(m.Notice))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
