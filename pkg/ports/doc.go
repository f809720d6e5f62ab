/*
Package ports defines the interfaces between the render pipeline and the outside world.

These interfaces decouple the core logic from external implementations, allowing
the board to work with different remote sources, session stores and front-ends.

# Key Interfaces

  - Fetcher: Retrieves users, posts and comments (HTTP or in-memory fixtures).
  - SessionStore: Persists what each viewer is looking at.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - Board: The driving port the HTTP and MCP adapters talk to.
*/
package ports
