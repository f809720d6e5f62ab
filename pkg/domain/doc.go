/*
Package domain contains the core entities of the blog board.

It defines the records fetched from the remote source (User, Post, Comment), the
three-state List used to tell "never fetched" apart from "fetched, but empty", the
per-viewer Session and the lifecycle events emitted by the pipeline. This package is
kept free of I/O so every other layer can depend on it.

# Key Entities

  - User, Post, Comment: immutable records decoded from the remote source.
  - List: a collection that is Absent, Empty or Present.
  - Session: what a viewer selected and which comment sections they expanded.
  - LifecycleHooks: callbacks for fetches, refresh cycles and toggles.
*/
package domain
