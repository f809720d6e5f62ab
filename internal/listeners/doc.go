// Package listeners keeps toggle controls bound to their click handlers across refreshes.
//
// Every binding keeps the *dom.Handler it registered so it can later be
// removed by identity. The Manager is not safe for concurrent use; callers
// serialize access together with the document it mutates.
package listeners
