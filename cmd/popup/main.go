// The popup is the extension's control surface, rendered as a terminal UI.
// It connects to the running agent's socket for credentials and cached
// reputation, and talks to the backend directly for auth and mutations.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/config"
	"github.com/ugackMiner53/CrowdTruth/internal/popup"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: crowdtruth-popup <page-url>")
		os.Exit(2)
	}
	pageURL := os.Args[1]

	cfg, err := config.LoadAgent("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	agent, err := popup.Dial(cfg.SocketPath, cfg.RequestTimeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer agent.Close()

	api := client.New(cfg.ServerURL, cfg.RequestTimeout)

	p := tea.NewProgram(popup.New(api, agent, pageURL))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
