package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"squadpage/internal/application/orchestrators"
	"squadpage/internal/application/projections"
	"squadpage/internal/application/query"
	"squadpage/internal/domain/message"
	"squadpage/internal/domain/person"
)

// maxFormBytes caps guestbook form bodies.
const maxFormBytes = 64 << 10

// perfWindow is how far back /debug/perf aggregates by default.
const perfWindow = 15 * time.Minute

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handlePerf serves the perf collector snapshot as JSON.
// An optional ?window=5m narrows the aggregation window.
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	window := perfWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = d
	}
	snap := a.opts.Collector.Snapshot(time.Now().Add(-window), 10)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (a *app) rosterDeps() projections.GetRosterDeps {
	return projections.GetRosterDeps{
		PersonStore: a.stores.PersonStore,
		SquadStore:  a.stores.SquadStore,
		Roster:      a.opts.Roster,
	}
}

func (a *app) messageDeps() orchestrators.PostMessageDeps {
	return orchestrators.PostMessageDeps{
		MessageStore: a.stores.MessageStore,
		Notifier:     a.opts.Notifier,
		NotifyFrom:   a.opts.NotifyFrom,
		NotifyTo:     a.opts.NotifyTo,
	}
}

// handleRoster serves / and /aflopend-alfabetische-volgorde.
func (a *app) handleRoster(order query.Order) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := projections.QueryGetRoster(r.Context(), projections.GetRosterQuery{Order: order}, a.rosterDeps())
		if err != nil {
			fail(w, r, err)
			return
		}
		a.views.render(w, r, "index", IndexView{
			RosterList:  RosterList{Persons: res.Persons, Squads: res.Squads},
			ReverseName: order == query.Descending,
		})
	}
}

// handleSeason serves /lente, /zomer, /herfst and /winter. Any other
// top-level segment is not found, without an upstream call.
func (a *app) handleSeason(w http.ResponseWriter, r *http.Request) {
	season, ok := person.ParseSeason(chi.URLParam(r, "season"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	res, err := projections.QueryGetRoster(r.Context(),
		projections.GetRosterQuery{Order: query.Ascending, Season: season}, a.rosterDeps())
	if err != nil {
		fail(w, r, err)
		return
	}
	a.views.render(w, r, "season", newSeasonView(RosterList{Persons: res.Persons, Squads: res.Squads}, season))
}

// studentID parses the {id} segment. Only canonical positive integers are ids.
func studentID(r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || strconv.Itoa(id) != raw {
		return 0, false
	}
	return id, true
}

func (a *app) handleStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	res, err := projections.QueryGetStudentDetail(r.Context(), projections.GetStudentDetailQuery{PersonID: id},
		projections.GetStudentDetailDeps{
			PersonStore:  a.stores.PersonStore,
			SquadStore:   a.stores.SquadStore,
			MessageStore: a.stores.MessageStore,
			Roster:       a.opts.Roster,
		})
	if err != nil {
		fail(w, r, err)
		return
	}

	a.views.render(w, r, "student", StudentView{
		RosterList:   RosterList{Persons: res.Persons, Squads: res.Squads},
		PersonDetail: res.Person,
		Messages:     res.Messages,
		TeamName:     a.opts.TeamName,
	})
}

func (a *app) handlePostStudentMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecutePostStudentMessage(r.Context(), orchestrators.PostStudentMessageCommand{
		PersonID: id,
		From:     r.PostFormValue("from"),
		Text:     r.PostFormValue("text"),
	}, a.messageDeps())
	if err != nil {
		if message.IsValidation(err) {
			badRequest(w, r, err)
			return
		}
		fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/student/"+strconv.Itoa(id), http.StatusSeeOther)
}

func (a *app) handleMessages(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetMessages(r.Context(), projections.GetMessagesQuery{Tag: message.DemoTag},
		projections.GetMessagesDeps{MessageStore: a.stores.MessageStore})
	if err != nil {
		fail(w, r, err)
		return
	}
	a.views.render(w, r, "messages", MessagesView{Messages: res.Messages})
}

// handlePostDemoMessage accepts the text in "text", or in the older "message" field.
func (a *app) handlePostDemoMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")
	if text == "" {
		text = r.PostFormValue("message")
	}

	err := orchestrators.ExecutePostDemoMessage(r.Context(), orchestrators.PostDemoMessageCommand{Text: text}, a.messageDeps())
	if err != nil {
		if message.IsValidation(err) {
			badRequest(w, r, err)
			return
		}
		fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/berichten", http.StatusSeeOther)
}
