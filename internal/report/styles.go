// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the terminal styles shared by the report and the shell.
type Styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Info    lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles returns styles rendering for w. With color disabled every style
// renders its text unchanged. Color output is further limited to what the
// terminal behind w supports, so a pipe or file never receives escape codes.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return Styles{Heading: plain, Label: plain, Value: plain, Info: plain, Error: plain}
	}

	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Label:   r.NewStyle().Foreground(lipgloss.Color("#6EC4F4")),
		Value:   r.NewStyle().Foreground(lipgloss.Color("#6EF4A1")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("#6EC4F4")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#F45E6E")),
	}
}
