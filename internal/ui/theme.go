package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Help, Card                          lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.Color
	SymOK, SymFail, SymSelected                   string
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
			Muted:   lipgloss.NewStyle().Faint(true),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),

			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
			Help:     lipgloss.NewStyle().Faint(true),
			Card:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")),

			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("201"),
			SymOK:       "✔", SymFail: "✖", SymSelected: "▸ ",
		}
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Bold(true), Help: plain, Card: plain,
			Border: lipgloss.Border{
				Top: "-", Bottom: "-", Left: "|", Right: "|",
				TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
			},
			SymOK: "ok", SymFail: "x", SymSelected: "> ",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		Muted:   lipgloss.NewStyle().Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔", SymFail: "✖", SymSelected: "> ",
	}
}

// DisableColor strips colors from every style, whatever the terminal supports.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Expose what renderers need
func Current() Theme { return current }
