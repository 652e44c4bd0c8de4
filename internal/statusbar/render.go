package statusbar

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var iconPattern = regexp.MustCompile(`\$\(([A-Za-z0-9~-]+)\)`)

var icons = map[string]string{
	"repo-pull": "↓",
	"repo-push": "↑",
	"sync":      "⟳",
	"play":      "▶",
	"debug":     "⚑",
	"check":     "✓",
	"close":     "✗",
	"terminal":  "❯",
	"gear":      "⚙",
	"beaker":    "⚗",
	"star":      "★",
	"trash":     "⌫",
	"rocket":    "➚",
	"refresh":   "↻",
}

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
}

// DisplayText replaces $(icon) tokens in a label with glyphs. Unknown icons
// are dropped.
func DisplayText(label string) string {
	text := iconPattern.ReplaceAllStringFunc(label, func(tok string) string {
		name := iconPattern.FindStringSubmatch(tok)[1]
		// "$(sync~spin)" animates in editors; the glyph is the same.
		name, _, _ = strings.Cut(name, "~")
		return icons[name]
	})
	return strings.Join(strings.Fields(text), " ")
}

// bareText is the label with every $(icon) token removed.
func bareText(label string) string {
	return strings.Join(strings.Fields(iconPattern.ReplaceAllString(label, "")), " ")
}

// color maps an action color to a terminal color: "#rrggbb" is used as is,
// basic names and "terminal.ansi<Name>" theme ids map to ANSI colors.
func color(c string) (lipgloss.Color, bool) {
	c = strings.TrimSpace(c)
	if strings.HasPrefix(c, "#") {
		return lipgloss.Color(c), true
	}
	name := strings.ToLower(strings.TrimPrefix(c, "terminal.ansi"))
	name = strings.TrimPrefix(name, "bright")
	if code, ok := namedColors[name]; ok {
		return lipgloss.Color(code), true
	}
	return "", false
}

// Render draws the bar as a single line.
func (b *Bar) Render() string {
	items := b.Items()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		style := b.renderer.NewStyle()
		if item.Separator {
			parts = append(parts, style.Faint(true).Render(item.Text))
			continue
		}
		if c, ok := color(item.Color); ok {
			style = style.Foreground(c)
		}
		parts = append(parts, style.Render(DisplayText(item.Text)))
	}
	return strings.Join(parts, " ")
}

// Plain returns the displayed texts left to right, without styling.
func (b *Bar) Plain() []string {
	items := b.Items()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = DisplayText(item.Text)
	}
	return out
}
