// Package store holds the per-build state of the asset pipeline.
//
//   - Registry: output path -> final bytes, written concurrently while assets
//     load and drained once at finalize.
//   - Cache: transformed bytes keyed by the digest of the raw input, so
//     identical content is only run through the backends once per build.
//   - Output: writes files under an output root, creating directories.
package store

import "errors"

// ErrSealed is returned by Put once the registry has been drained.
var ErrSealed = errors.New("store: registry sealed")
