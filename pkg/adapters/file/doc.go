// Package file stores viewer sessions as JSON files, one per session.
// It suits single-process deployments that must survive restarts without Redis.
package file
