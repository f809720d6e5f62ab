// Package jsonplaceholder fetches users, posts and comments from a
// JSONPlaceholder-compatible REST API over plain HTTP GET.
package jsonplaceholder
