/*
Package dom is a small in-memory document model used as the render target.

Nodes are golang.org/x/net/html nodes, so a rendering can be serialized with
html.Render or inspected in tests without a browser. On top of the node tree the
package offers the handful of DOM operations the pipeline needs: element and
fragment creation, class lists, data attributes, attribute queries and event
listeners whose identity is a *Handler pointer.
*/
package dom
