// Package input snapshots the keyboard once per frame.
package input

import (
	"fmt"
	"strings"
)

// Key is a logical key the scene reacts to.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyW
	KeyS
	keyCount
)

var keyNames = [keyCount]string{"left", "right", "up", "down", "w", "s"}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// ParseKey returns the key with the given name.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// KeySet is a set of keys held at one instant.
type KeySet uint32

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// ParseKeySet parses "left+w" style key lists. The empty string is the
// empty set.
func ParseKeySet(s string) (KeySet, error) {
	var set KeySet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for name := range strings.SplitSeq(s, "+") {
		k, err := ParseKey(name)
		if err != nil {
			return 0, err
		}
		set = set.With(k)
	}
	return set, nil
}

func (s KeySet) With(k Key) KeySet {
	return s | 1<<k
}

func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

func (s KeySet) String() string {
	var names []string
	for k := range keyCount {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, "+")
}

// Keys holds this frame's key set and the previous one, so edge detection
// does not depend on when the host polled.
type Keys struct {
	current  KeySet
	previous KeySet
}

// NewKeys returns a snapshot with explicit current and previous sets.
func NewKeys(current, previous KeySet) Keys {
	return Keys{current: current, previous: previous}
}

// Advance shifts current into previous and stores next as current.
func (k *Keys) Advance(next KeySet) {
	k.previous = k.current
	k.current = next
}

// Pressed reports whether key is held this frame.
func (k Keys) Pressed(key Key) bool {
	return k.current.Has(key)
}

// JustPressed reports whether key went down this frame.
func (k Keys) JustPressed(key Key) bool {
	return k.current.Has(key) && !k.previous.Has(key)
}

// Current returns the keys held this frame.
func (k Keys) Current() KeySet {
	return k.current
}
