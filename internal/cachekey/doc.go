// Package cachekey derives the deterministic identifiers under which step
// results are memoized.
//
// A key has the form `name-version-k1=v1-k2=v2...` with parameter names in
// lexicographic order, or `name-version` when no eligible parameters remain.
// The reserved `step_name`, `cacheable_name` and `version` parameters, and any
// parameter whose name ends in IgnoreSuffix, never take part in a key.
//
// The content store files an artifact under Hash(key), not under the key
// itself.
package cachekey
