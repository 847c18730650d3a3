package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/kafumanto/simplelock/internal/engine"
	"github.com/kafumanto/simplelock/internal/ledger"
)

// Styles for the listing output. lipgloss degrades to plain text when the
// output is not a terminal, so scripts can parse the same lines.
var (
	lockedFileStyle   = lipgloss.NewStyle().Bold(true)
	holderStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	purposeStyle      = lipgloss.NewStyle().Faint(true)
	unlockedPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// renderLocked formats one lock record for the listing.
func renderLocked(rec ledger.Record) string {
	return fmt.Sprintf("%s is locked by %s for %s",
		lockedFileStyle.Render(rec.File),
		holderStyle.Render(rec.User),
		purposeStyle.Render(rec.Purpose))
}

// renderEntry formats one combined locked/unlocked listing row.
func renderEntry(e engine.Entry) string {
	if e.Locked {
		return renderLocked(e.Record)
	}
	return fmt.Sprintf("%s is unlocked", unlockedPathStyle.Render(e.Path))
}
