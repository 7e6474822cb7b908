package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// IgnoreSuffix marks a parameter that reaches the step function but is left
// out of its cache key.
const IgnoreSuffix = "_ignore"

// Reserved parameter names delivered to every step function.
const (
	ParamStepName      = "step_name"
	ParamVersion       = "version"
	ParamCacheableName = "cacheable_name"
)

// Eligible reports whether a parameter name participates in key derivation.
func Eligible(name string) bool {
	switch name {
	case ParamStepName, ParamVersion, ParamCacheableName:
		return false
	}
	return !strings.HasSuffix(name, IgnoreSuffix)
}

// Derive builds the cache key for a step invocation. Values are rendered with
// fmt's default formatting, so anything implementing fmt.Stringer (such as a
// step reference) contributes its String form.
func Derive(name, version string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for k := range params {
		if Eligible(k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('-')
	b.WriteString(version)
	for _, k := range names {
		b.WriteByte('-')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(params[k]))
	}
	return b.String()
}

// Hash returns the hex encoded SHA-256 digest of a derived key.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
