package identification

import (
	"context"
	"errors"
	"log/slog"

	"comicrenamer/internal/logging"
	"comicrenamer/internal/services/bangumi"
	"comicrenamer/internal/textutil"
)

// Identifier resolves entry names against the catalog.
type Identifier struct {
	catalog bangumi.Catalog
	logger  *slog.Logger
}

// NewIdentifier constructs an Identifier backed by catalog.
func NewIdentifier(catalog bangumi.Catalog, logger *slog.Logger) *Identifier {
	return &Identifier{
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "identifier"),
	}
}

// Identify searches the catalog for term and resolves its fields. found is
// false when the catalog has no match; that is not an error.
func (i *Identifier) Identify(ctx context.Context, term string, whitelist Whitelist, useWhitelist bool) (ResolvedFields, bool, error) {
	if i == nil || i.catalog == nil {
		return nil, false, errors.New("identifier catalog is nil")
	}
	logger := logging.WithContext(ctx, i.logger)
	term = textutil.NormalizeName(term)

	subject, err := i.catalog.Search(ctx, term)
	if err != nil {
		return nil, false, err
	}
	if subject == nil {
		logger.Debug("catalog miss", logging.String("term", term))
		return nil, false, nil
	}
	logger.Debug("catalog match",
		logging.String("term", term),
		logging.Int64("subject_id", subject.ID),
		logging.String("name", subject.Name),
		logging.String("name_cn", subject.NameCN),
	)

	contributors, err := i.catalog.Contributors(ctx, subject.ID)
	if err != nil {
		return nil, false, err
	}
	if len(contributors) == 0 {
		contributors = subject.InfoboxContributors()
		logger.Debug("no persons listed, using infobox",
			logging.Int64("subject_id", subject.ID),
			logging.Int("infobox_entries", len(contributors)),
		)
	}

	fields := Resolve(subject, contributors, whitelist, useWhitelist)
	logger.Debug("resolved fields", fieldAttrs(fields)...)
	return fields, true, nil
}

func fieldAttrs(fields ResolvedFields) []any {
	attrs := make([]logging.Attr, 0, len(AllFields))
	for _, f := range AllFields {
		if value, ok := fields.Get(f); ok {
			attrs = append(attrs, logging.String(string(f), value))
		}
	}
	return logging.Args(attrs...)
}
