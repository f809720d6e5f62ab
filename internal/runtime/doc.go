// Package runtime runs the page refresh cycle.
//
// A selection change fetches the user's posts, rebuilds the articles off the
// live document, then swaps them in under <main> and rebinds the toggle
// controls. Each cycle takes a generation number; a cycle that finishes
// rebuilding after a newer one has started drops its result.
package runtime
