package main

import (
	"fmt"
	"os"

	"taskmanager/cmd/taskui/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	server := pflag.String("server", envOr("TASKMANAGER_SERVER", "http://127.0.0.1:8001"), "task manager API base URL")
	pflag.Parse()

	p := tea.NewProgram(ui.NewRootModel(*server), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskui: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
