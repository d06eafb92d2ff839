// Package query builds Directus filter, sort and field parameters.
package query

import (
	"net/url"
	"strings"

	"squadpage/internal/domain/person"
)

// Param is a single query-string pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter set. Encode keeps insertion order so the
// upstream URL for a given configuration is always the same string.
type Params []Param

// Encode renders the set as a URL query string without a leading "?".
// PRE: none
// POST: pairs appear in insertion order, keys and values query-escaped
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Options names everything a page can ask of the upstream API.
type Options struct {
	SortField      string
	SortDescending bool
	Fields         []string
	Season         person.Season // zero value: no season filter

	// SquadPath is the relation path from the queried collection to the
	// squad collection, e.g. ["squads", "squad_id"] for person. Empty when
	// the squad collection itself is queried.
	SquadPath []string
	TribeName string
	SquadName string
	Cohort    string

	ForTag string
}

// Build converts options to parameters. Options left empty emit nothing;
// an empty filter value would match records whose field equals "".
// PRE: none
// POST: order is sort, fields, tribe, squad, cohort, fav_season, for
func Build(o Options) Params {
	var p Params
	if o.SortField != "" {
		v := o.SortField
		if o.SortDescending {
			v = "-" + v
		}
		p = append(p, Param{Key: "sort", Value: v})
	}
	if len(o.Fields) > 0 {
		p = append(p, Param{Key: "fields", Value: strings.Join(o.Fields, ",")})
	}
	if o.TribeName != "" {
		p = append(p, Param{Key: filterKey(o.SquadPath, "tribe", "name"), Value: o.TribeName})
	}
	if o.SquadName != "" {
		p = append(p, Param{Key: filterKey(o.SquadPath, "name"), Value: o.SquadName})
	}
	if o.Cohort != "" {
		p = append(p, Param{Key: filterKey(o.SquadPath, "cohort"), Value: o.Cohort})
	}
	if o.Season.Valid() {
		p = append(p, Param{Key: filterKey(nil, "fav_season"), Value: string(o.Season)})
	}
	if o.ForTag != "" {
		p = append(p, Param{Key: filterKey(nil, "for"), Value: o.ForTag})
	}
	return p
}

// filterKey renders a Directus filter key, e.g. filter[squads][squad_id][name].
func filterKey(path []string, field ...string) string {
	var b strings.Builder
	b.WriteString("filter")
	for _, seg := range path {
		b.WriteString("[" + seg + "]")
	}
	for _, seg := range field {
		b.WriteString("[" + seg + "]")
	}
	return b.String()
}
