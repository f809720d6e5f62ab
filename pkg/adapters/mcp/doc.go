// Package mcp exposes a board to agents over the Model Context Protocol.
//
// Tools: list_employees, show_posts, toggle_comments.
// Resources: blogs://board (HTML) and blogs://board.md (Markdown).
package mcp
