// Package bootstrap wires the asset-driven physics scene: it waits for the
// scene's assets, builds the bodies once they resolve, then drives the
// character controller and the frame-rate overlay every frame.
package bootstrap

import (
	"fmt"
	"strings"
)

// LoadState is the phase of the bootstrap sequence. States only move
// forward, one step at a time.
type LoadState int

const (
	Loading LoadState = iota
	Ready
	InGame
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case InGame:
		return "InGame"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// Variant selects which example scene is built.
type Variant int

const (
	// Character adds a keyboard-driven kinematic body and a third state.
	Character Variant = iota
	// Gravity only drops bodies onto the floor.
	Gravity
)

func (v Variant) String() string {
	switch v {
	case Character:
		return "character"
	case Gravity:
		return "gravity"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant parses "character" or "gravity".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "character":
		return Character, nil
	case "gravity":
		return Gravity, nil
	}
	return 0, fmt.Errorf("bootstrap: unknown variant %q", s)
}

// Final returns the last state the variant reaches. Per-frame gameplay runs
// only in that state.
func (v Variant) Final() LoadState {
	if v == Character {
		return InGame
	}
	return Ready
}
