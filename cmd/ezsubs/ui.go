package main

import (
	"ezsubs/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func themed(key, text string) string {
	name := "default"
	if cfg != nil {
		name = cfg.Theme.Name
	}
	color := config.GetTheme(name)[key]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func successText(text string) string { return themed("success", text) }
func errorText(text string) string   { return themed("error", text) }
func warningText(text string) string { return themed("warning", text) }
func infoText(text string) string    { return themed("muted", text) }
func headerText(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(themed("primary", text))
}
