// Package builder renders posts and comments into detached html node trees.
//
// A Builder resolves the author and comments of every post through a
// ports.Fetcher, concurrently, and returns the articles in input order. It
// never mounts anything; the caller owns the live document.
package builder
