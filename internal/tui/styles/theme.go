// Package styles holds the color theme and shared lipgloss styles.
package styles

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is a named color palette.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	once   sync.Once
	styles *Styles
}

// Styles are the text styles derived from a Theme.
type Styles struct {
	Base     lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Primary  lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
}

// S returns the theme's styles, building them on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		base := lipgloss.NewStyle().Foreground(t.FgBase)
		t.styles = &Styles{
			Base:     base,
			Text:     base,
			Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
			Primary:  lipgloss.NewStyle().Foreground(t.Primary),
			Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Subtitle: lipgloss.NewStyle().Foreground(t.Secondary),
			Selected: lipgloss.NewStyle().
				Foreground(t.FgBase).
				Background(Blend(t.BgSubtle, t.Primary, 0.25)).
				Bold(true),
			Success: lipgloss.NewStyle().Foreground(t.Success),
			Error:   lipgloss.NewStyle().Foreground(t.Error),
			Warning: lipgloss.NewStyle().Foreground(t.Warning),
			Info:    lipgloss.NewStyle().Foreground(t.Info),
		}
	})
	return t.styles
}

// ParseHex parses a "#rrggbb" color. Invalid input yields black.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Blend mixes a and b in Lab space; t=0 gives a, t=1 gives b.
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return b
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return ca.BlendLab(cb, t).Clamped()
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cc.Hex()
}

// Manager holds the active theme.
type Manager struct {
	mu      sync.RWMutex
	current *Theme
	themes  map[string]*Theme
}

var (
	defaultManager *Manager
	managerOnce    sync.Once
)

// NewManager initializes the global theme manager with the default theme.
func NewManager() *Manager {
	managerOnce.Do(func() {
		def := NewDefaultTheme()
		defaultManager = &Manager{
			current: def,
			themes:  map[string]*Theme{def.Name: def},
		}
	})
	return defaultManager
}

// Register adds a theme that can later be selected by name.
func (m *Manager) Register(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.Name] = t
}

// SetTheme selects a registered theme. It reports false for unknown names.
func (m *Manager) SetTheme(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[name]
	if ok {
		m.current = t
	}
	return ok
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentTheme returns the active theme of the global manager.
func CurrentTheme() *Theme {
	return NewManager().Current()
}
