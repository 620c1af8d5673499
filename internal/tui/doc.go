// Package tui implements the interactive terminal form: a Bubble Tea model
// that lets the user pick device quantities and sizes while the impact totals
// and their everyday equivalents update on every keystroke.
package tui
