// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package algorithms

import (
	"fmt"
	"strings"
)

// Epsilon keeps inverse-distance weights finite for exact matches.
const Epsilon = 1e-9

// Weighting selects how each neighbor contributes to its label's vote.
type Weighting uint8

// Supported weighting schemes.
const (
	WeightUniform Weighting = iota + 1
	WeightInverseDistance
)

var weightingTable = map[Weighting]struct {
	name   string
	weight func(distance float64) float64
}{
	WeightUniform:         {"uniform", func(float64) float64 { return 1 }},
	WeightInverseDistance: {"distance", func(d float64) float64 { return 1 / (d + Epsilon) }},
}

// ParseWeighting parses a weighting name. "inverse-distance" and
// "inverse_distance" are accepted aliases of "distance".
func ParseWeighting(s string) (Weighting, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "inverse-distance", "inverse_distance":
		name = "distance"
	}
	for w, entry := range weightingTable {
		if entry.name == name {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown weighting %q (want uniform or distance)", s)
}

// String returns the weighting name.
func (w Weighting) String() string {
	if entry, ok := weightingTable[w]; ok {
		return entry.name
	}
	return fmt.Sprintf("weighting(%d)", uint8(w))
}

// Valid reports whether w is a supported weighting.
func (w Weighting) Valid() bool {
	_, ok := weightingTable[w]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (w Weighting) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weighting) UnmarshalText(text []byte) error {
	parsed, err := ParseWeighting(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Weight returns the vote weight of a neighbor at distance d.
func (w Weighting) Weight(d float64) float64 {
	return weightingTable[w].weight(d)
}
