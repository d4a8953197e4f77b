package ui

import "time"

// Screen regions.
const (
	// headerHeight is the number of rows above the content viewport.
	headerHeight = 2

	// footerHeight is the number of rows below the content viewport.
	footerHeight = 1

	// LayoutCompactWidth is the threshold below which the header drops the
	// document location.
	LayoutCompactWidth = 100
)

// Help overlay.
const (
	helpModalWidth = 44
	helpKeyWidth   = 12
	helpRuleWidth  = 30
)

// Log overlay. Chrome is the border, padding and title rows around the lines.
const (
	logChromeHeight = 6
	logChromeWidth  = 8
)

// Content rendering.
const (
	// tabWidth is how many spaces a tab expands to in the viewport.
	tabWidth = 4

	// changeContextLines keeps this many lines above the first change visible
	// when a diff frame scrolls to it.
	changeContextLines = 3
)

// Timing constants.
const (
	// ReloadTimeout bounds a user-triggered reload.
	ReloadTimeout = 5 * time.Second
)
