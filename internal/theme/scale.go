// Package theme holds design-token scales and merges configuration overlays into them.
package theme

import "sort"

// Entry is a single design token: "25" → ".25"
type Entry struct {
	Key   string
	Value string
}

// Scale is an ordered set of entries with unique keys.
// Order is insertion order; values are opaque strings and never normalized.
type Scale struct {
	entries []Entry
	index   map[string]int // key → position in entries
}

// NewScale builds a scale from entries. A repeated key keeps the first
// position and takes the later value.
func NewScale(entries ...Entry) *Scale {
	s := &Scale{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		s.set(e.Key, e.Value)
	}
	return s
}

// set replaces a value in place or appends a new entry
func (s *Scale) set(key, value string) {
	if pos, exists := s.index[key]; exists {
		s.entries[pos].Value = value
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, Value: value})
}

// clone returns an independent copy
func (s *Scale) clone() *Scale {
	c := &Scale{
		entries: make([]Entry, len(s.entries)),
		index:   make(map[string]int, len(s.index)),
	}
	copy(c.entries, s.entries)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Lookup returns the value stored under key.
func (s *Scale) Lookup(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	pos, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.entries[pos].Value, true
}

// Len returns the number of entries.
func (s *Scale) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the entries in order.
func (s *Scale) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Keys returns the keys in order.
func (s *Scale) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Position returns the index of key, or -1.
func (s *Scale) Position(key string) int {
	if s == nil {
		return -1
	}
	if pos, ok := s.index[key]; ok {
		return pos
	}
	return -1
}

// Theme is a set of named, independent scales.
// A Theme is never mutated after construction; Resolve always returns a new one.
type Theme struct {
	scales map[string]*Scale
}

// New builds a theme from named scales.
func New(scales map[string]*Scale) *Theme {
	t := &Theme{scales: make(map[string]*Scale, len(scales))}
	for name, s := range scales {
		t.scales[name] = s.clone()
	}
	return t
}

// Scale returns the named scale, or nil.
func (t *Theme) Scale(name string) *Scale {
	if t == nil {
		return nil
	}
	return t.scales[name]
}

// Lookup resolves key in the named scale only.
func (t *Theme) Lookup(scale, key string) (string, bool) {
	return t.Scale(scale).Lookup(key)
}

// Names returns all scale names, sorted.
func (t *Theme) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.scales))
	for name := range t.scales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
