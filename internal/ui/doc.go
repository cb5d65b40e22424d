// Package ui styles terminal output with lipgloss.
//
// The CLI prints migration status and short confirmations through a shared [Palette]. When
// stdout is not a terminal lipgloss drops the escape codes, so output stays greppable.
package ui
