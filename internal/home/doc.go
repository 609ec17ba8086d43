// Package home holds the read-only model of the user's home: rooms,
// services and scenes as reported by the platform integration.
//
// A Snapshot is built once per sync and never mutated. The Store keeps the
// current snapshot behind an atomic pointer so that resolution and webhook
// handling always see one consistent view, even while a newer snapshot is
// being decoded.
//
// Snapshots can be decoded from JSON (comments allowed) or YAML documents.
// Every document is validated against an embedded JSON schema before it is
// accepted.
package home
