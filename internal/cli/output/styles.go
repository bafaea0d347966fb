package output

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles holds the text styles used by commands.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
}

// NewStyles builds styles for r. A renderer with the ASCII profile yields
// plain text.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  r.NewStyle().Bold(true).Foreground(colorPrimary).Underline(true),
		Header2:  r.NewStyle().Bold(true).Foreground(colorPrimary),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(colorMuted),
		Success:  r.NewStyle().Foreground(colorSuccess),
		Warning:  r.NewStyle().Foreground(colorWarning),
		Error:    r.NewStyle().Foreground(colorError).Bold(true),
		Info:     r.NewStyle().Foreground(colorInfo),
		FilePath: r.NewStyle().Bold(true).Underline(true),
	}
}
