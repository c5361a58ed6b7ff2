package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by the theme setting.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func ParseTheme(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ThemeLight, "":
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

type palette struct {
	title, muted, accent, fav, tag, errorFg lipgloss.Color
}

var palettes = map[string]palette{
	ThemeLight: {title: "235", muted: "240", accent: "27", fav: "#c08400", tag: "#5f87af", errorFg: "#b3261e"},
	ThemeDark:  {title: "252", muted: "245", accent: "62", fav: "#f3c300", tag: "#87afd7", errorFg: "#f2777a"},
}

type styles struct {
	header lipgloss.Style
	title  lipgloss.Style
	meta   lipgloss.Style
	fav    lipgloss.Style
	tag    lipgloss.Style
	info   lipgloss.Style
	err    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeLight]
	}
	return styles{
		header: r.NewStyle().Foreground(p.accent).Bold(true),
		title:  r.NewStyle().Foreground(p.title),
		meta:   r.NewStyle().Foreground(p.muted),
		fav:    r.NewStyle().Foreground(p.fav).Bold(true),
		tag:    r.NewStyle().Foreground(p.tag),
		info:   r.NewStyle().Foreground(p.muted).Italic(true),
		err:    r.NewStyle().Foreground(p.errorFg).Bold(true),
	}
}
