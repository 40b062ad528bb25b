package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"comicrenamer/internal/services/bangumi"
)

// FakeSubject is one catalog record served by NewBangumiServer. Term is the
// search term that finds it.
type FakeSubject struct {
	Term    string
	ID      int64
	Name    string
	NameCN  string
	Persons []bangumi.Contributor
}

// BangumiServer is an httptest server speaking the subset of the Bangumi API
// the client uses. Unknown search terms return zero results.
type BangumiServer struct {
	*httptest.Server
	requests  atomic.Int64
	userAgent atomic.Value
}

// Requests returns the number of requests served so far.
func (s *BangumiServer) Requests() int64 {
	return s.requests.Load()
}

// LastUserAgent returns the User-Agent header of the most recent request.
func (s *BangumiServer) LastUserAgent() string {
	ua, _ := s.userAgent.Load().(string)
	return ua
}

// NewBangumiServer starts a fake catalog holding subjects and registers cleanup.
func NewBangumiServer(t testing.TB, subjects ...FakeSubject) *BangumiServer {
	t.Helper()

	byTerm := make(map[string]FakeSubject, len(subjects))
	byID := make(map[int64]FakeSubject, len(subjects))
	for _, s := range subjects {
		byTerm[s.Term] = s
		byID[s.ID] = s
	}

	srv := &BangumiServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.requests.Add(1)
		srv.userAgent.Store(r.UserAgent())
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/search/subject/"):
			s, ok := byTerm[strings.TrimPrefix(path, "/search/subject/")]
			if !ok {
				_ = json.NewEncoder(w).Encode(bangumi.SearchResponse{})
				return
			}
			_ = json.NewEncoder(w).Encode(bangumi.SearchResponse{
				Results: 1,
				List:    []bangumi.SearchResult{{ID: s.ID, Name: s.Name, NameCN: s.NameCN, Type: bangumi.SubjectTypeBook}},
			})
		case strings.HasSuffix(path, "/persons"):
			s, ok := lookupID(byID, strings.TrimSuffix(strings.TrimPrefix(path, "/v0/subjects/"), "/persons"))
			if !ok {
				http.NotFound(w, r)
				return
			}
			persons := s.Persons
			if persons == nil {
				persons = []bangumi.Contributor{}
			}
			_ = json.NewEncoder(w).Encode(persons)
		case strings.HasPrefix(path, "/v0/subjects/"):
			s, ok := lookupID(byID, strings.TrimPrefix(path, "/v0/subjects/"))
			if !ok {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(bangumi.Subject{ID: s.ID, Name: s.Name, NameCN: s.NameCN, Type: bangumi.SubjectTypeBook})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func lookupID(byID map[int64]FakeSubject, raw string) (FakeSubject, bool) {
	var id int64
	if _, err := fmt.Sscan(raw, &id); err != nil {
		return FakeSubject{}, false
	}
	s, ok := byID[id]
	return s, ok
}

// Person is shorthand for a contributor with the given relation.
func Person(relation, name string) bangumi.Contributor {
	return bangumi.Contributor{Name: name, Relation: relation}
}

func jsonArray(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}
