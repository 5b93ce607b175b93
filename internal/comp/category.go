package comp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Category is the coarse archetype label assigned to a champion. The set is
// fixed and matches the primary tags Riot assigns in Data Dragon.
type Category string

const (
	CategoryAssassin Category = "Assassin"
	CategoryFighter  Category = "Fighter"
	CategoryMage     Category = "Mage"
	CategoryMarksman Category = "Marksman"
	CategorySupport  Category = "Support"
	CategoryTank     Category = "Tank"
)

// ErrUnknownChampion is returned when a champion name is not in the mapping table.
var ErrUnknownChampion = errors.New("unknown champion")

// ErrUnknownCategory is returned when parsing a category label outside the fixed set.
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns the fixed category set in canonical (sorted) order.
func Categories() []Category {
	return []Category{
		CategoryAssassin,
		CategoryFighter,
		CategoryMage,
		CategoryMarksman,
		CategorySupport,
		CategoryTank,
	}
}

var validCategories = func() map[Category]bool {
	m := make(map[Category]bool)
	for _, c := range Categories() {
		m[c] = true
	}
	return m
}()

// ParseCategory resolves a user-supplied label ("tank", "Marksman") to a Category.
func ParseCategory(s string) (Category, error) {
	for c := range validCategories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Mapper resolves champion names to categories. A new Mapper starts from the
// built-in static roster; RefreshFromDataDragon can replace the table with
// the live champion index for the current patch.
type Mapper struct {
	table map[string]Category // canonical name -> category
	index map[string]Category // normalized name -> category
}

// NewMapper creates a Mapper backed by the built-in champion table.
func NewMapper() *Mapper {
	m := &Mapper{}
	m.replace(championCategories)
	return m
}

// CategoryOf maps a champion name, as returned by the match API, to its
// category. The lookup is insensitive to case and punctuation so that
// display names ("Cho'Gath", "Dr. Mundo") and API names ("Chogath",
// "DrMundo") resolve to the same entry.
func (m *Mapper) CategoryOf(champion string) (Category, error) {
	cat, ok := m.index[normalizeName(champion)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChampion, champion)
	}
	return cat, nil
}

// Champions returns the known champion names in sorted order.
func (m *Mapper) Champions() []string {
	names := make([]string, 0, len(m.table))
	for name := range m.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// replace swaps the lookup table.
func (m *Mapper) replace(table map[string]Category) {
	canonical := make(map[string]Category, len(table))
	index := make(map[string]Category, len(table))
	for name, cat := range table {
		canonical[name] = cat
		index[normalizeName(name)] = cat
	}
	m.table = canonical
	m.index = index
}

// normalizeName lowercases and strips punctuation and spaces so both
// display and API champion name formats hit the same key.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
