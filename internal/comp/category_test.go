package comp

import (
	"errors"
	"testing"
)

func TestCategoryOf_KnownChampions(t *testing.T) {
	m := NewMapper()

	cases := []struct {
		champion string
		want     Category
	}{
		{"Malphite", CategoryTank},
		{"Lux", CategoryMage},
		{"Jinx", CategoryMarksman},
		{"Thresh", CategorySupport},
		{"Zed", CategoryAssassin},
		{"Darius", CategoryFighter},
	}
	for _, tc := range cases {
		got, err := m.CategoryOf(tc.champion)
		if err != nil {
			t.Errorf("CategoryOf(%q) failed: %v", tc.champion, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CategoryOf(%q) = %s, want %s", tc.champion, got, tc.want)
		}
	}
}

func TestCategoryOf_NormalizesNameFormats(t *testing.T) {
	m := NewMapper()

	// Display name and API name variants of the same champion.
	cases := []struct {
		variants []string
		want     Category
	}{
		{[]string{"Chogath", "Cho'Gath", "chogath"}, CategoryTank},
		{[]string{"DrMundo", "Dr. Mundo"}, CategoryFighter},
		{[]string{"KSante", "K'Sante"}, CategoryTank},
		{[]string{"MissFortune", "Miss Fortune"}, CategoryMarksman},
		{[]string{"LeeSin", "Lee Sin"}, CategoryFighter},
	}
	for _, tc := range cases {
		for _, name := range tc.variants {
			got, err := m.CategoryOf(name)
			if err != nil {
				t.Errorf("CategoryOf(%q) failed: %v", name, err)
				continue
			}
			if got != tc.want {
				t.Errorf("CategoryOf(%q) = %s, want %s", name, got, tc.want)
			}
		}
	}
}

func TestCategoryOf_UnknownChampion(t *testing.T) {
	m := NewMapper()
	if _, err := m.CategoryOf("Teletubby"); !errors.Is(err, ErrUnknownChampion) {
		t.Errorf("CategoryOf unknown champion error = %v, want ErrUnknownChampion", err)
	}
}

func TestCategoryOf_TotalOverRoster(t *testing.T) {
	m := NewMapper()
	for _, name := range m.Champions() {
		if _, err := m.CategoryOf(name); err != nil {
			t.Errorf("CategoryOf(%q) failed: %v", name, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("tank")
	if err != nil {
		t.Fatalf("ParseCategory failed: %v", err)
	}
	if got != CategoryTank {
		t.Errorf("ParseCategory(\"tank\") = %s, want Tank", got)
	}

	if _, err := ParseCategory("Bruiser"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ParseCategory(\"Bruiser\") error = %v, want ErrUnknownCategory", err)
	}
}
