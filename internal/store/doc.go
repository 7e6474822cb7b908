// Package store implements the content store: durable key to artifact
// storage for step results.
//
// Artifacts live in a flat directory, one file per derived cache key, named
// by the key's SHA-256 hex digest. The bytes are produced by an injected
// Codec, so the store never depends on the shape of a step's result.
//
// Files written by older releases were named by the literal key. Get still
// falls back to that layout when the hashed file is absent; nothing writes
// it anymore.
package store
