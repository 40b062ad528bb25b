package bangumi

import (
	"encoding/json"
	"strings"
)

// SubjectTypeBook is the search category covering comics and novels.
const SubjectTypeBook = 1

// Relation labels reported by the persons endpoint.
const (
	RelationAuthor       = "作者"
	RelationIllustrator  = "作画"
	RelationOriginalWork = "原作"
	RelationPublisher    = "出版社"
)

// SearchResult is a single entry of the legacy search listing.
type SearchResult struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameCN string `json:"name_cn"`
	Type   int    `json:"type"`
}

// SearchResponse models the legacy /search/subject payload.
type SearchResponse struct {
	Results int            `json:"results"`
	List    []SearchResult `json:"list"`
}

// InfoboxEntry is a key/value pair from a subject's infobox. Values are either
// plain strings or lists of {"v": ...} objects.
type InfoboxEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// StringValue returns the value when it is a plain string.
func (e InfoboxEntry) StringValue() (string, bool) {
	var s string
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Subject is the catalog record for a single comic.
type Subject struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	NameCN  string         `json:"name_cn"`
	Type    int            `json:"type"`
	Infobox []InfoboxEntry `json:"infobox"`
}

// Contributor is a person or company related to a subject.
type Contributor struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Type     int    `json:"type"`
}

// InfoboxContributors converts string-valued infobox entries into
// contributors so subjects without persons data can still be resolved.
func (s *Subject) InfoboxContributors() []Contributor {
	if s == nil {
		return nil
	}
	out := make([]Contributor, 0, len(s.Infobox))
	for _, entry := range s.Infobox {
		value, ok := entry.StringValue()
		if !ok {
			continue
		}
		out = append(out, Contributor{Name: value, Relation: strings.TrimSpace(entry.Key)})
	}
	return out
}
