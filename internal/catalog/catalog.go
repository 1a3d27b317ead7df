// Package catalog stores mission definitions and play results.
//
// The backing database is Postgres when reachable, with a local SQLite
// fallback so the game always starts. Missions are read-mostly: the only
// write the game performs is Report after a mission ends.
package catalog

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a mission id does not exist.
var ErrNotFound = errors.New("mission not found")

// ErrPersistence is returned when a catalog write fails. Callers treat it
// as non-fatal: the outcome goes unsaved and play continues.
var ErrPersistence = errors.New("catalog write failed")

// Difficulty is an ordered mission difficulty tier.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a stored difficulty string to its tier.
// Unknown strings map to medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(s) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Descriptor is the menu-level view of a mission.
type Descriptor struct {
	ID         uint
	Title      string
	Difficulty Difficulty
	Completed  bool
}

// Detail is the full mission definition fetched on selection.
type Detail struct {
	Descriptor
	Brief string
	Steps []string
	Par   time.Duration
}
