// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import "errors"

// Errors returned by the Arena loader. Any of these aborts process
// startup per §4.9 — the index is inert without a valid load.
var (
	// ErrMalformedIndex is returned when the MessagePack stream does not
	// match the expected directory-forest shape, or a string fails UTF-8
	// validation.
	ErrMalformedIndex = errors.New("fzf: malformed index")

	// ErrOversizedIndex is returned when a loader limit is exceeded: the
	// PChar pool grows past 2^26 bytes, a component exceeds 255
	// characters, or a directory's filelen/dirlen exceeds 65535.
	ErrOversizedIndex = errors.New("fzf: index exceeds loader limits")

	// ErrInvalidQuery is returned by NewQuery for an empty string or one
	// containing a NUL byte or a byte outside ASCII [1,127].
	ErrInvalidQuery = errors.New("fzf: invalid query")

	// ErrInvalidMaxResults is returned by NewMatcher when max results is
	// not positive.
	ErrInvalidMaxResults = errors.New("fzf: max results must be at least 1")
)
