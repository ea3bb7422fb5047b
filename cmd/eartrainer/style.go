package main

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen = lipgloss.Color("#3fb950")
	colorRed   = lipgloss.Color("#f85149")
	colorAmber = lipgloss.Color("#d29922")
	colorMuted = lipgloss.Color("#8b949e")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorAmber)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
