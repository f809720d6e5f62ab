/*
Package http serves boards over HTTP.

Every viewer gets a session cookie and a board of their own, held by a
session.Manager. Routes:

	GET  /                        the page (HTML)
	GET  /session                 the viewer's session (JSON)
	POST /select                  form field "user": show that employee's posts
	POST /posts/{postID}/toggle   show or hide the comments of a post
	GET  /events                  server-sent events, one per session change
	GET  /health, /info, /metrics

POST routes answer with JSON when the request accepts it, and otherwise
redirect back to the page.
*/
package http
