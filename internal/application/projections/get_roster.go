package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"squadpage/internal/application/query"
	domainPerson "squadpage/internal/domain/person"
	domainSquad "squadpage/internal/domain/squad"
)

// GetRosterQuery carries query parameters.
type GetRosterQuery struct {
	Order  query.Order
	Season domainPerson.Season // optional: empty lists every season
}

// GetRosterResult carries the query result.
type GetRosterResult struct {
	Persons []domainPerson.Person
	Squads  []domainSquad.Squad
}

// GetRosterDeps holds dependencies for GetRoster.
type GetRosterDeps struct {
	PersonStore PersonStore
	SquadStore  SquadStore
	Roster      query.Roster
}

// QueryGetRoster lists the roster's persons and the tribe's squads.
// PRE: deps.Roster names a tribe, squad and cohort
// POST: Returns persons ordered by name in query.Order, filtered by season when set
func QueryGetRoster(ctx context.Context, q GetRosterQuery, deps GetRosterDeps) (GetRosterResult, error) {
	var result GetRosterResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		persons, err := deps.PersonStore.List(gctx, deps.Roster.Persons(q.Order, q.Season))
		if err != nil {
			return fmt.Errorf("roster persons: %w", err)
		}
		result.Persons = persons
		return nil
	})
	g.Go(func() error {
		squads, err := deps.SquadStore.List(gctx, deps.Roster.Squads())
		if err != nil {
			return fmt.Errorf("roster squads: %w", err)
		}
		result.Squads = squads
		return nil
	})

	if err := g.Wait(); err != nil {
		return GetRosterResult{}, err
	}
	return result, nil
}
