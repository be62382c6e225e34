// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// Directory is one node of the forest decoded from a paths.fzf index: a
// name, a file-range and a child-range into the Arena's pools, and the
// CharSet of every character reachable beneath it (name, files, and
// transitive subdirectories).
type Directory struct {
	Name    PathComponent
	FileOff uint32
	DirOff  uint32
	FileLen uint16
	DirLen  uint16
	CharSet CharSet
}

// Arena is the process-wide, append-only owner of every PChar, file
// PathComponent, and Directory for one loaded index. Once Load returns,
// every offset inside the Arena is stable for the Arena's lifetime;
// Directory and PathComponent values only borrow into it by offset.
type Arena struct {
	pchars []PChar
	files  []PathComponent
	dirs   []Directory

	digest [32]byte
}

// NewArena returns an empty Arena, ready for Load.
func NewArena() *Arena {
	return &Arena{}
}

// PathIter returns the PChars making up pc, in order.
func (a *Arena) PathIter(pc PathComponent) []PChar {
	off := pc.offset()
	return a.pchars[off : off+pc.Len()]
}

// PathText reconstructs the original (lossy past NUL-collapse) text of pc.
func (a *Arena) PathText(pc PathComponent) string {
	chars := a.PathIter(pc)
	buf := make([]byte, len(chars))
	for i, c := range chars {
		buf[i] = c.Byte
	}
	return string(buf)
}

// FilesOf returns d's direct file entries.
func (a *Arena) FilesOf(d *Directory) []PathComponent {
	return a.files[d.FileOff : d.FileOff+uint32(d.FileLen)]
}

// DirsOf returns d's direct subdirectories.
func (a *Arena) DirsOf(d *Directory) []Directory {
	return a.dirs[d.DirOff : d.DirOff+uint32(d.DirLen)]
}

// pathComponent interns text as a PathComponent, appending its PChars to
// the pool. The pool is 4-byte aligned at each component's start.
func (a *Arena) pathComponent(text string) (PathComponent, error) {
	for len(a.pchars)%4 != 0 {
		a.pchars = append(a.pchars, PChar{})
	}
	start := len(a.pchars)

	var cs CharSet
	cs.Add('/')

	bonus := byte(5) // component head
	n := 0
	for _, c := range text {
		if n == maxComponentLen {
			return PathComponent{}, fmt.Errorf("%w: component longer than %d characters", ErrOversizedIndex, maxComponentLen)
		}
		if c > 0 && c < 128 {
			if bonus == 0 && c >= 'A' && c <= 'Z' {
				bonus = 2 // camel-case, mutually exclusive with separator bonus
			}
			a.pchars = append(a.pchars, PChar{Byte: byte(c), Bonus: bonus})
		} else {
			a.pchars = append(a.pchars, PChar{})
		}
		cs.Add(c)
		n++

		switch c {
		case '/', '\\':
			bonus = 5
		case '_', '-', '.', ' ', '\'', '"', ':':
			bonus = 4
		default:
			bonus = 0
		}
	}

	data, err := packComponent(start, n)
	if err != nil {
		return PathComponent{}, err
	}
	return PathComponent{data: data, CharSet: cs}, nil
}

// Digest returns the BLAKE3 digest of the raw bytes this Arena was loaded
// from, for cache-busting and /healthz reporting (§11.1).
func (a *Arena) Digest() [32]byte {
	return a.digest
}

// SetDigest records the BLAKE3 digest of the source bytes Load consumed.
// Callers that stream through indexsource.Source (§11.1) compute the
// digest alongside the decode and set it once Load returns successfully.
func (a *Arena) SetDigest(d [32]byte) {
	a.digest = d
}

// Stats reports the size of each pool, for /healthz and load-check
// reporting.
func (a *Arena) Stats() (pchars, files, dirs int) {
	return len(a.pchars), len(a.files), len(a.dirs)
}

// Load decodes a root_forest MessagePack document (§6) into a forest of
// root Directories. It fails fast: any malformed input, non-UTF-8 name,
// or loader-limit violation aborts the whole load.
func (a *Arena) Load(r io.Reader) ([]Directory, error) {
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative root count", ErrMalformedIndex)
	}

	roots := make([]Directory, 0, n)
	for i := 0; i < n; i++ {
		blob, err := dec.DecodeBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: reading root %d: %v", ErrMalformedIndex, i, err)
		}
		root, err := a.parseDirectory(msgpack.NewDecoder(bytes.NewReader(blob)))
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}

	// Shrink pools to fit: no further growth is expected for the
	// lifetime of this index.
	a.pchars = append(make([]PChar, 0, len(a.pchars)), a.pchars...)
	a.files = append(make([]PathComponent, 0, len(a.files)), a.files...)
	a.dirs = append(make([]Directory, 0, len(a.dirs)), a.dirs...)

	logrus.Infof("fzf: arena loaded: %d pchars, %d files, %d dirs, %d roots", len(a.pchars), len(a.files), len(a.dirs), len(roots))
	return roots, nil
}

// parseDirectory decodes a single `[name, files, children]` array and its
// contents, recursively, filling a.files and a.dirs in pre-order so that
// siblings occupy a contiguous range.
func (a *Arena) parseDirectory(dec *msgpack.Decoder) (Directory, error) {
	fieldLen, err := dec.DecodeArrayLen()
	if err != nil {
		return Directory{}, fmt.Errorf("%w: directory header: %v", ErrMalformedIndex, err)
	}
	if fieldLen != 3 {
		return Directory{}, fmt.Errorf("%w: directory array has %d fields, want 3", ErrMalformedIndex, fieldLen)
	}

	rawName, err := dec.DecodeString()
	if err != nil {
		return Directory{}, fmt.Errorf("%w: directory name: %v", ErrMalformedIndex, err)
	}
	if !utf8.ValidString(rawName) {
		return Directory{}, fmt.Errorf("%w: directory name is not valid UTF-8", ErrMalformedIndex)
	}
	name, err := a.pathComponent(rawName)
	if err != nil {
		return Directory{}, err
	}

	fileOff := len(a.files)
	filesN, err := dec.DecodeArrayLen()
	if err != nil {
		return Directory{}, fmt.Errorf("%w: file list: %v", ErrMalformedIndex, err)
	}
	if filesN > math.MaxUint16 {
		return Directory{}, fmt.Errorf("%w: %d files exceeds 65535", ErrOversizedIndex, filesN)
	}
	for i := 0; i < filesN; i++ {
		raw, err := dec.DecodeString()
		if err != nil {
			return Directory{}, fmt.Errorf("%w: file name: %v", ErrMalformedIndex, err)
		}
		if !utf8.ValidString(raw) {
			return Directory{}, fmt.Errorf("%w: file name is not valid UTF-8", ErrMalformedIndex)
		}
		pc, err := a.pathComponent(raw)
		if err != nil {
			return Directory{}, err
		}
		a.files = append(a.files, pc)
	}

	dirOff := len(a.dirs)
	dirsN, err := dec.DecodeArrayLen()
	if err != nil {
		return Directory{}, fmt.Errorf("%w: child list: %v", ErrMalformedIndex, err)
	}
	if dirsN > math.MaxUint16 {
		return Directory{}, fmt.Errorf("%w: %d subdirectories exceeds 65535", ErrOversizedIndex, dirsN)
	}
	// Placeholder the subdirectory slots first so siblings remain
	// contiguous, then recurse into each slot to fill it in.
	a.dirs = append(a.dirs, make([]Directory, dirsN)...)
	for i := dirOff; i < dirOff+dirsN; i++ {
		child, err := a.parseDirectory(dec)
		if err != nil {
			return Directory{}, err
		}
		a.dirs[i] = child
	}

	return a.directory(name, uint32(fileOff), uint32(dirOff), uint16(filesN), uint16(dirsN)), nil
}

// directory computes a Directory's recursive CharSet from its name plus
// its (already-populated) files and children.
func (a *Arena) directory(name PathComponent, fileOff, dirOff uint32, fileLen, dirLen uint16) Directory {
	var cs CharSet
	cs.Union(name.CharSet)
	for _, f := range a.files[fileOff : fileOff+uint32(fileLen)] {
		cs.Union(f.CharSet)
	}
	for _, d := range a.dirs[dirOff : dirOff+uint32(dirLen)] {
		cs.Union(d.CharSet)
	}
	return Directory{
		Name:    name,
		FileOff: fileOff,
		DirOff:  dirOff,
		FileLen: fileLen,
		DirLen:  dirLen,
		CharSet: cs,
	}
}
