package query

import "squadpage/internal/domain/person"

// Roster is the tribe, squad and cohort every page lists students from.
type Roster struct {
	Tribe  string
	Squad  string
	Cohort string
}

// DefaultRoster is the first-year squad shown by the site.
var DefaultRoster = Roster{
	Tribe:  "FDND Jaar 1",
	Squad:  "1J",
	Cohort: "2526",
}

var (
	personFields  = []string{"*", "squads.*"}
	personToSquad = []string{"squads", "squad_id"}
)

// Persons returns the person query for the roster, sorted by name.
// A zero season lists every student.
func (r Roster) Persons(order Order, season person.Season) Options {
	return Options{
		SortField:      "name",
		SortDescending: order == Descending,
		Fields:         personFields,
		Season:         season,
		SquadPath:      personToSquad,
		TribeName:      r.Tribe,
		SquadName:      r.Squad,
		Cohort:         r.Cohort,
	}
}

// PersonDetail returns the field selection for a single person, with the
// squad junction rows expanded the same way as in Persons.
func PersonDetail() Options {
	return Options{Fields: personFields}
}

// Squads returns the squad query for every squad of the roster's tribe and cohort.
func (r Roster) Squads() Options {
	return Options{
		TribeName: r.Tribe,
		Cohort:    r.Cohort,
	}
}

// MessagesFor returns the messages query for one guestbook tag.
func MessagesFor(tag string) Options {
	return Options{ForTag: tag}
}
