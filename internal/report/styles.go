// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Color palette for the text report. Tuned for dark terminal backgrounds.
const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
	colorVerbose   = lipgloss.Color("#9CA3AF")
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconBullet  = "•"
)

type (
	// palette is the set of styles used by the text renderer. The plain
	// palette renders every string unchanged.
	palette struct {
		title   lipgloss.Style
		success lipgloss.Style
		failure lipgloss.Style
		warning lipgloss.Style
		key     lipgloss.Style
		hint    lipgloss.Style
		doc     lipgloss.Style
		detail  lipgloss.Style
	}
)

func newPalette(styled bool) palette {
	if !styled {
		plain := lipgloss.NewStyle()
		return palette{
			title: plain, success: plain, failure: plain, warning: plain,
			key: plain, hint: plain, doc: plain, detail: plain,
		}
	}

	return palette{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		success: lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		failure: lipgloss.NewStyle().Bold(true).Foreground(colorError),
		warning: lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
		key:     lipgloss.NewStyle().Foreground(colorHighlight),
		hint:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		doc:     lipgloss.NewStyle().Foreground(colorMuted),
		detail:  lipgloss.NewStyle().Foreground(colorVerbose),
	}
}
