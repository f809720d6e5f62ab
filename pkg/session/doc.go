/*
Package session keeps one board per viewer and persists what each viewer sees.

Access to a session is serialized by a per-session lock, optionally backed by
a distributed lock, so replicas sharing a store never interleave operations on
the same viewer. Boards evicted from memory are rebuilt from the stored
selection and expanded posts.
*/
package session
