// Package idgen provides short, URL-safe unique IDs for runs and worlds.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	RunPrefix   = "run-"
	WorldPrefix = "w-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// NewRunID returns an ID for a test run.
func NewRunID() (string, error) {
	return GenerateWithPrefix(RunPrefix)
}

// NewWorldID returns an ID for a per-row world.
func NewWorldID() (string, error) {
	return GenerateWithPrefix(WorldPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
