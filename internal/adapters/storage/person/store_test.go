package person

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/application/query"
	domain "squadpage/internal/domain/person"
)

func TestDirectusStore_List(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"data":[{"id":1,"name":"Anna","fav_season":"Lente","squads":[{"id":3,"person_id":1,"squad_id":31}]}]}`)
	}))
	defer srv.Close()

	store := NewDirectusStore(directus.NewClient(srv.URL))
	opts := query.DefaultRoster.Persons(query.Ascending, domain.Spring)
	got, err := store.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery != query.Build(opts).Encode() {
		t.Errorf("query = %q", gotQuery)
	}
	if len(got) != 1 || got[0].Name != "Anna" || !got[0].InSquad(31) {
		t.Errorf("got %+v", got)
	}
}

func TestDirectusStore_ListEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	got, err := NewDirectusStore(directus.NewClient(srv.URL)).List(context.Background(), query.Options{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want non-nil empty", got)
	}
}

func TestDirectusStore_GetByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items/person/42":
			// Directus returns bare junction keys unless the relation is expanded.
			if r.URL.Query().Get("fields") == "*,squads.*" {
				io.WriteString(w, `{"data":{"id":42,"name":"Sieuwke","github_handle":"sieuwke","squads":[{"id":9,"person_id":42,"squad_id":31}]}}`)
				return
			}
			io.WriteString(w, `{"data":{"id":42,"name":"Sieuwke","github_handle":"sieuwke","squads":[9]}}`)
		default:
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"errors":[{"message":"You don't have permission to access this.","extensions":{"code":"FORBIDDEN"}}]}`)
		}
	}))
	defer srv.Close()
	store := NewDirectusStore(directus.NewClient(srv.URL))

	p, err := store.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.GithubHandle != "sieuwke" {
		t.Errorf("GithubHandle = %q", p.GithubHandle)
	}
	if !p.InSquad(31) {
		t.Errorf("Squads = %+v, want membership of squad 31", p.Squads)
	}

	_, err = store.GetByID(context.Background(), 999999)
	var nf *directus.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *directus.NotFoundError", err)
	}
}
