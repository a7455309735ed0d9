package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo/internal/ui"
)

func theme() ui.Theme { return ui.Current() }

func boxStyle() lipgloss.Style { return ui.Box() }

func helpLine(s string) string { return theme().Help.Render(s) }
