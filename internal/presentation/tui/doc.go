// Package tui presents the page in a terminal: Markdown conversion, glamour
// rendering and the colored banner.
package tui
