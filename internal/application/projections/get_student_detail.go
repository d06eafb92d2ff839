package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"squadpage/internal/application/query"
	domainMessage "squadpage/internal/domain/message"
	domainPerson "squadpage/internal/domain/person"
	domainSquad "squadpage/internal/domain/squad"
)

// GetStudentDetailQuery carries query parameters.
type GetStudentDetailQuery struct {
	PersonID int
}

// GetStudentDetailResult carries the query result.
type GetStudentDetailResult struct {
	Person   domainPerson.Person
	Persons  []domainPerson.Person // full roster, ascending
	Squads   []domainSquad.Squad
	Messages []domainMessage.Message // guestbook for StudentTag(PersonID)
}

// GetStudentDetailDeps holds dependencies for GetStudentDetail.
type GetStudentDetailDeps struct {
	PersonStore  PersonStore
	SquadStore   SquadStore
	MessageStore MessageStore
	Roster       query.Roster
}

// QueryGetStudentDetail loads a student with the roster, the squads and the
// student's guestbook. The four fetches run concurrently; the first failure
// cancels the rest.
// PRE: q.PersonID > 0
// POST: Returns the detail, or the first fetch error (a not-found person included)
func QueryGetStudentDetail(ctx context.Context, q GetStudentDetailQuery, deps GetStudentDetailDeps) (GetStudentDetailResult, error) {
	var result GetStudentDetailResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := deps.PersonStore.GetByID(gctx, q.PersonID)
		if err != nil {
			return err
		}
		result.Person = p
		return nil
	})
	g.Go(func() error {
		persons, err := deps.PersonStore.List(gctx, deps.Roster.Persons(query.Ascending, ""))
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
	g.Go(func() error {
		msgs, err := deps.MessageStore.ListByTag(gctx, domainMessage.StudentTag(q.PersonID))
		if err != nil {
			return fmt.Errorf("student messages: %w", err)
		}
		result.Messages = msgs
		return nil
	})

	if err := g.Wait(); err != nil {
		return GetStudentDetailResult{}, err
	}
	return result, nil
}
