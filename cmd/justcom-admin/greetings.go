package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

var greetings = [...]string{
	"The orders will not ship themselves.",
	"Somewhere a customer is refreshing their tracking page.",
	"Stock levels are a state of mind. Check them anyway.",
	"The inbox has been patient. It will not be patient forever.",
	"A refurbished iPhone is waiting for its second life.",
	"Revenue charts look better when someone is watching them.",
	"Every pending order is a promise. Go keep some.",
	"The MacBooks are counted. The AirPods are probably not.",
}

func printHelp(out io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true).
		Render("J U S T C O M   A D M I N")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"justcom-admin", "Open the dashboard (interactive TUI)"},
		{"justcom-admin login [email]", "Sign in with your admin account"},
		{"justcom-admin logout", "Sign out and clear the stored session"},
		{"justcom-admin whoami", "Show the signed-in account"},
		{"justcom-admin version", "Show version"},
		{"justcom-admin help", "You are here"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  Commands:\n", title)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", c.cmd)), descStyle.Render(c.desc))
	}

	env := []struct{ name, desc string }{
		{"JUSTCOM_API_URL", "API base URL"},
		{"JUSTCOM_SESSION_BACKEND", "file, redis or memory"},
		{"JUSTCOM_PASSWORD", "password for non-interactive login"},
		{"JUSTCOM_LOG_LEVEL", "debug, info, warn, error or off"},
	}
	fmt.Fprintf(out, "\n  Environment (also read from .env):\n")
	for _, e := range env {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", e.name)), descStyle.Render(e.desc))
	}
	fmt.Fprintln(out)
}

func printGreeting(out io.Writer) {
	banner := figure.NewFigure("JUSTCOM", "cybermedium", true).String()

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(greetings[rand.IntN(len(greetings))])

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Render("To sign in: justcom-admin login")

	fmt.Fprintf(out, "\n%s\n%s\n\n%s\n\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Render(banner), quote, hint)
}
