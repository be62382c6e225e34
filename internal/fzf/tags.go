// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// TagMatch is one tag_table entry whose name matched an exact-lookup query.
type TagMatch struct {
	Name     string
	Packages []string
}

// ScanTags streams a tags.fzf blob (§6: `[package_table, tag_table]`),
// resolving package ids through package_table and returning every tag_table
// entry whose name equals exact. The blob is never buffered into memory as
// a whole: both tables are decoded element by element.
func ScanTags(r io.Reader, exact string) ([]TagMatch, error) {
	dec := msgpack.NewDecoder(r)

	nPkgs, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: package table: %v", ErrMalformedIndex, err)
	}
	if nPkgs < 0 || nPkgs > math.MaxUint16 {
		return nil, fmt.Errorf("%w: package table has %d entries", ErrOversizedIndex, nPkgs)
	}
	packages := make(map[uint16]string, nPkgs)
	for i := 0; i < nPkgs; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("%w: package name %d: %v", ErrMalformedIndex, i, err)
		}
		id, err := dec.DecodeUint16()
		if err != nil {
			return nil, fmt.Errorf("%w: package id %d: %v", ErrMalformedIndex, i, err)
		}
		packages[id] = name
	}

	nTags, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: tag table: %v", ErrMalformedIndex, err)
	}
	if nTags < 0 {
		return nil, fmt.Errorf("%w: negative tag count", ErrMalformedIndex)
	}

	var matches []TagMatch
	for i := 0; i < nTags; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("%w: tag name %d: %v", ErrMalformedIndex, i, err)
		}
		found := name == exact

		nInst, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, fmt.Errorf("%w: tag instances %d: %v", ErrMalformedIndex, i, err)
		}
		var pkgs []string
		if found {
			pkgs = make([]string, 0, nInst)
		}
		for j := 0; j < nInst; j++ {
			id, err := dec.DecodeUint16()
			if err != nil {
				return nil, fmt.Errorf("%w: tag instance %d/%d: %v", ErrMalformedIndex, i, j, err)
			}
			if found {
				pkgs = append(pkgs, packages[id])
			}
		}

		if found {
			matches = append(matches, TagMatch{Name: name, Packages: pkgs})
		}
	}

	return matches, nil
}

// FormatTagMatches renders matches the way the original exact-lookup
// endpoint does: one newline-terminated line per match, `<name> <pkg1>
// <pkg2> …`.
func FormatTagMatches(w io.Writer, matches []TagMatch) error {
	for _, m := range matches {
		if _, err := io.WriteString(w, m.Name); err != nil {
			return err
		}
		for _, pkg := range m.Packages {
			if _, err := io.WriteString(w, " "+pkg); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
