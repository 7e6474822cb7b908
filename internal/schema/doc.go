// Package schema holds the gohcl decoding structures of pipeline files.
package schema
