package comp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TeamSize is the number of players on one side of a match.
const TeamSize = 5

// ErrCompositionSize is returned when a composition does not have exactly
// TeamSize categories.
var ErrCompositionSize = errors.New("composition must have exactly 5 categories")

// Key is the canonical identity of a team composition: the multiset of five
// categories sorted into a fixed total order. Two teams with the same
// category multiset always produce equal Keys regardless of player order.
// Key is comparable and usable as a map key.
type Key [TeamSize]Category

// BuildKey canonicalizes a team's five categories into a Key. The input is
// not mutated. It fails with ErrCompositionSize unless exactly five
// categories are supplied, and rejects labels outside the fixed set.
func BuildKey(categories []Category) (Key, error) {
	if len(categories) != TeamSize {
		return Key{}, fmt.Errorf("%w: got %d", ErrCompositionSize, len(categories))
	}

	var k Key
	copy(k[:], categories)
	for _, c := range k {
		if !validCategories[c] {
			return Key{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
	}
	sort.Slice(k[:], func(i, j int) bool { return k[i] < k[j] })
	return k, nil
}

// String renders the key as a stable, human-readable delimited list,
// e.g. "Mage/Marksman/Support/Tank/Tank". This rendering is also the text
// form stored in the database; equal keys produce byte-identical strings.
func (k Key) String() string {
	parts := make([]string, TeamSize)
	for i, c := range k {
		parts[i] = string(c)
	}
	return strings.Join(parts, "/")
}

// Categories returns the key's categories in canonical order.
func (k Key) Categories() []Category {
	out := make([]Category, TeamSize)
	copy(out, k[:])
	return out
}

// ParseKey parses the text rendering produced by Key.String back into a
// canonical Key. Stored keys are already sorted, but the input is
// re-canonicalized so any 5-category rendering round-trips.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "/")
	categories := make([]Category, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCategory(p)
		if err != nil {
			return Key{}, err
		}
		categories = append(categories, c)
	}
	return BuildKey(categories)
}
