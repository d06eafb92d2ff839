package person_test

import (
	"encoding/json"
	"testing"

	"squadpage/internal/domain/person"
)

// TestParseSeason tests slug and upstream value resolution.
func TestParseSeason(t *testing.T) {
	tests := []struct {
		input  string
		want   person.Season
		wantOK bool
	}{
		{"lente", person.Spring, true},
		{"Zomer", person.Summer, true},
		{"HERFST", person.Autumn, true},
		{"winter", person.Winter, true},
		{"spring", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := person.ParseSeason(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseSeason(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestSeason_SlugRoundTrip verifies every season resolves from its own slug.
func TestSeason_SlugRoundTrip(t *testing.T) {
	for _, s := range person.Seasons {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
		got, ok := person.ParseSeason(s.Slug())
		if !ok || got != s {
			t.Errorf("ParseSeason(%q) = %q, %v; want %q", s.Slug(), got, ok, s)
		}
	}
	if person.Season("Lentezomer").Valid() {
		t.Error("unknown season should be invalid")
	}
}

// TestPerson_DecodeMemberships covers both the expanded and the bare junction shape.
func TestPerson_DecodeMemberships(t *testing.T) {
	t.Run("expanded", func(t *testing.T) {
		raw := `{"id": 42, "name": "Sieuwke", "fav_season": "Herfst",
			"squads": [{"id": 9, "person_id": 42, "squad_id": 31}]}`
		var p person.Person
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if p.FavSeason != person.Autumn {
			t.Errorf("FavSeason = %q, want %q", p.FavSeason, person.Autumn)
		}
		if len(p.Squads) != 1 || p.Squads[0].SquadID != 31 || p.Squads[0].ID != 9 {
			t.Fatalf("Squads = %+v", p.Squads)
		}
		if !p.InSquad(31) || p.InSquad(30) {
			t.Error("InSquad mismatch")
		}
	})

	t.Run("bare keys", func(t *testing.T) {
		raw := `{"id": 42, "name": "Sieuwke", "avatar": null, "squads": [9, 10]}`
		var p person.Person
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(p.Squads) != 2 || p.Squads[1].ID != 10 || p.Squads[1].SquadID != 0 {
			t.Fatalf("Squads = %+v", p.Squads)
		}
	})
}
