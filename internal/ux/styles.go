// Package ux provides the terminal styling for the interactive loop.
package ux

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the REPL.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the sonny terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2")),
		System:    lipgloss.NewStyle().Faint(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
	}
}

// PlainStyles returns unstyled renderers for non-TTY output and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Banner: plain, User: plain, Assistant: plain, System: plain, Error: plain}
}
