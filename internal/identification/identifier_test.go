package identification_test

import (
	"context"
	"errors"
	"testing"

	"comicrenamer/internal/identification"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/services"
	"comicrenamer/internal/services/bangumi"
)

type stubCatalog struct {
	subjects     map[string]*bangumi.Subject
	contributors map[int64][]bangumi.Contributor
	searchErr    error
	searched     []string
}

func (s *stubCatalog) Search(_ context.Context, term string) (*bangumi.Subject, error) {
	s.searched = append(s.searched, term)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.subjects[term], nil
}

func (s *stubCatalog) Contributors(_ context.Context, id int64) ([]bangumi.Contributor, error) {
	return s.contributors[id], nil
}

func TestIdentifyResolvesFields(t *testing.T) {
	catalog := &stubCatalog{
		subjects:     map[string]*bangumi.Subject{"Foo": {ID: 5, Name: "Foo JP", NameCN: "Bar"}},
		contributors: map[int64][]bangumi.Contributor{5: people("作者", "Baz", "出版社", "X")},
	}
	id := identification.NewIdentifier(catalog, logging.NewNop())

	fields, found, err := id.Identify(context.Background(), " Foo ", identification.Whitelist{}, false)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if !found {
		t.Fatal("expected match")
	}
	if v, _ := fields.Get(identification.FieldNameCN); v != "Bar" {
		t.Fatalf("namecn = %q", v)
	}
	if v, _ := fields.Get(identification.FieldAuthor); v != "Baz" {
		t.Fatalf("author = %q", v)
	}
	if v, _ := fields.Get(identification.FieldPress); v != "X" {
		t.Fatalf("press = %q", v)
	}
	if len(catalog.searched) != 1 || catalog.searched[0] != "Foo" {
		t.Fatalf("expected trimmed search term, got %v", catalog.searched)
	}
}

func TestIdentifyFallsBackToInfobox(t *testing.T) {
	catalog := &stubCatalog{
		subjects: map[string]*bangumi.Subject{"Foo": {
			ID:   5,
			Name: "Foo",
			Infobox: []bangumi.InfoboxEntry{
				{Key: "作画", Value: []byte(`"B"`)},
				{Key: "别名", Value: []byte(`[{"v":"alias"}]`)},
			},
		}},
	}
	id := identification.NewIdentifier(catalog, nil)
	fields, found, err := id.Identify(context.Background(), "Foo", identification.Whitelist{}, false)
	if err != nil || !found {
		t.Fatalf("Identify = found %v, err %v", found, err)
	}
	if v, _ := fields.Get(identification.FieldAuthor); v != "B" {
		t.Fatalf("author = %q, want B", v)
	}
}

func TestIdentifyMiss(t *testing.T) {
	id := identification.NewIdentifier(&stubCatalog{}, nil)
	fields, found, err := id.Identify(context.Background(), "Unknown", identification.Whitelist{}, false)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if found || fields != nil {
		t.Fatalf("expected miss, got found=%v fields=%v", found, fields)
	}
}

func TestIdentifyPropagatesCatalogErrors(t *testing.T) {
	catalog := &stubCatalog{searchErr: services.Wrap(services.ErrRateLimited, "bangumi", "search", "", nil)}
	id := identification.NewIdentifier(catalog, nil)
	if _, _, err := id.Identify(context.Background(), "Foo", identification.Whitelist{}, false); !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}
