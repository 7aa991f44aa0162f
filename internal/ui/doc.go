// Package ui provides the interactive pager for assembled output.
//
// The pager is a Bubble Tea program over lines that have already been
// rendered, so it never decodes records itself. It scrolls a viewport with
// less-style keys, searches with "/" using case-insensitive regular
// expressions matched against the text with ANSI styling removed, and moves
// between matches with "n" and "N". Matching lines are marked in a two-column
// gutter; the current match is centred when possible.
//
// "T" cycles the chrome theme and "w" toggles soft wrapping. Both choices are
// written back through the prefs package so the next run starts the same way.
package ui
