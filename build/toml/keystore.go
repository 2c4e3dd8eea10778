package toml

import (
	"fmt"
	"strings"
)

type keyKind uint8

const (
	keyValue keyKind = iota + 1
	keyTable
	keyArrayTable
	keyImplicitTable // parent of a header, never opened itself
)

type keyEntry struct {
	kind      keyKind
	instances int // [[path]] blocks opened so far, keyArrayTable only
}

// KeyStore records every path declared in a document, partitioned into value
// keys, tables and arrays of tables. Validation and registration are separate
// calls so the caller can report which rule was broken.
//
// Paths are canonical: a segment that names an array of tables carries the
// index of the instance it lives in, e.g. "fruit[1].physical".
type KeyStore struct {
	keys map[string]*keyEntry
}

func NewKeyStore() *KeyStore {
	return &KeyStore{keys: make(map[string]*keyEntry)}
}

func (s *KeyStore) kindOf(path string) keyKind {
	if e, ok := s.keys[path]; ok {
		return e.kind
	}
	return 0
}

// IsValidKey reports whether path is not declared under any kind.
func (s *KeyStore) IsValidKey(path string) bool {
	return s.kindOf(path) == 0
}

// AddKey registers path as a value key.
func (s *KeyStore) AddKey(path string) {
	s.keys[path] = &keyEntry{kind: keyValue}
}

// IsValidTableKey reports whether path can be opened as a [table]. A table
// that so far exists only as the parent of another header may be opened once.
func (s *KeyStore) IsValidTableKey(path string) bool {
	k := s.kindOf(path)
	return k != keyTable && k != keyValue
}

func (s *KeyStore) AddTableKey(path string) {
	s.addParents(path)
	s.keys[path] = &keyEntry{kind: keyTable}
}

// IsImplicitTable reports whether path was created only as the parent of a
// [table] or [[array]] header.
func (s *KeyStore) IsImplicitTable(path string) bool {
	return s.kindOf(path) == keyImplicitTable
}

// addParents registers every undeclared proper prefix of path as an
// implicit table. Prefixes pinned to an array instance are skipped.
func (s *KeyStore) addParents(path string) {
	for i := 0; i < len(path); i++ {
		if path[i] != '.' || i == 0 || path[i-1] == ']' {
			continue
		}
		if _, ok := s.keys[path[:i]]; !ok {
			s.keys[path[:i]] = &keyEntry{kind: keyImplicitTable}
		}
	}
}

func (s *KeyStore) IsRegisteredAsArrayTableKey(path string) bool {
	return s.kindOf(path) == keyArrayTable
}

// IsValidArrayTableKey reports whether a [[path]] block may be opened.
// Repeating an existing array of tables is valid; any kind of table is not.
func (s *KeyStore) IsValidArrayTableKey(path string) bool {
	k := s.kindOf(path)
	return k == 0 || k == keyArrayTable
}

// AddArrayTableKey opens a new instance of the array of tables at path.
func (s *KeyStore) AddArrayTableKey(path string) {
	e, ok := s.keys[path]
	if !ok || e.kind != keyArrayTable {
		s.addParents(path)
		e = &keyEntry{kind: keyArrayTable}
		s.keys[path] = e
	}
	e.instances++
}

// IsTableImplicitFromArrayTable reports whether path already names an array
// of tables, which makes it unavailable as a plain table.
func (s *KeyStore) IsTableImplicitFromArrayTable(path string) bool {
	return s.IsRegisteredAsArrayTableKey(path)
}

// Instances returns how many [[path]] blocks have been opened.
func (s *KeyStore) Instances(path string) int {
	if e, ok := s.keys[path]; ok && e.kind == keyArrayTable {
		return e.instances
	}
	return 0
}

// InstancePath is the canonical path of the latest instance of the array of
// tables at path. Any other path is returned unchanged.
func (s *KeyStore) InstancePath(path string) string {
	if n := s.Instances(path); n > 0 {
		return fmt.Sprintf("%s[%d]", path, n-1)
	}
	return path
}

// Resolve maps a dotted header path to its canonical form by pinning every
// proper prefix that is an array of tables to its latest instance.
func (s *KeyStore) Resolve(dotted string) string {
	segs := strings.Split(dotted, ".")
	cur := ""
	for i, seg := range segs {
		if cur == "" {
			cur = seg
		} else {
			cur = cur + "." + seg
		}
		if i < len(segs)-1 {
			cur = s.InstancePath(cur)
		}
	}
	return cur
}

// HasValuePrefix reports whether a proper prefix of the canonical path is a
// value key.
func (s *KeyStore) HasValuePrefix(path string) bool {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' && s.kindOf(path[:i]) == keyValue {
			return true
		}
	}
	return false
}
