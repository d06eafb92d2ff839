package person

import (
	"encoding/json"
	"strings"

	"squadpage/internal/domain/ref"
)

// Season is a self-reported favorite season. Values match the upstream
// fav_season field.
type Season string

const (
	Spring Season = "Lente"
	Summer Season = "Zomer"
	Autumn Season = "Herfst"
	Winter Season = "Winter"
)

// Seasons lists every season in calendar order.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// Valid reports whether s is one of the four known seasons.
func (s Season) Valid() bool {
	for _, known := range Seasons {
		if s == known {
			return true
		}
	}
	return false
}

// Slug returns the URL path segment for the season, e.g. "lente".
func (s Season) Slug() string {
	return strings.ToLower(string(s))
}

// ParseSeason resolves a URL slug or upstream value to a Season.
// PRE: none
// POST: ok is false when the input names no known season
func ParseSeason(v string) (Season, bool) {
	for _, s := range Seasons {
		if strings.EqualFold(v, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Person is a student record from the upstream person collection.
type Person struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Nickname     string       `json:"nickname"`
	Avatar       string       `json:"avatar"`
	Bio          string       `json:"bio"`
	GithubHandle string       `json:"github_handle"`
	Website      string       `json:"website"`
	FavSeason    Season       `json:"fav_season"`
	Squads       []Membership `json:"squads"`
}

// Membership links a person to a squad through the squad junction collection.
type Membership struct {
	ID       ref.Key `json:"id"`
	PersonID ref.Key `json:"person_id"`
	SquadID  ref.Key `json:"squad_id"`
}

// UnmarshalJSON accepts either a bare junction key or an expanded junction row.
func (m *Membership) UnmarshalJSON(b []byte) error {
	if !ref.IsObject(b) {
		var k ref.Key
		if err := json.Unmarshal(b, &k); err != nil {
			return err
		}
		*m = Membership{ID: k}
		return nil
	}
	type row Membership
	var r row
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*m = Membership(r)
	return nil
}

// InSquad reports whether the person belongs to the squad with the given key.
func (p *Person) InSquad(squadID int) bool {
	for _, m := range p.Squads {
		if int(m.SquadID) == squadID {
			return true
		}
	}
	return false
}
