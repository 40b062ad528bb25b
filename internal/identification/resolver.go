package identification

import (
	"strings"

	"comicrenamer/internal/services/bangumi"
)

// relationRule binds a contributor relation to the field it fills. Tables of
// rules are evaluated in order; the first rule with a match sets the field and
// later rules for that field are skipped.
type relationRule struct {
	relation string
	field    Field
}

var authorRules = []relationRule{
	{relation: bangumi.RelationAuthor, field: FieldAuthor},
	{relation: bangumi.RelationIllustrator, field: FieldAuthor},
	{relation: bangumi.RelationOriginalWork, field: FieldAuthor},
}

var pressRules = []relationRule{
	{relation: bangumi.RelationPublisher, field: FieldPress},
}

// Resolve extracts the rename fields from a subject and its contributors.
// When useWhitelist is set, the first publisher present in whitelist wins over
// the first-seen publisher; otherwise the first-seen publisher wins.
func Resolve(subject *bangumi.Subject, contributors []bangumi.Contributor, whitelist Whitelist, useWhitelist bool) ResolvedFields {
	fields := ResolvedFields{}
	if subject == nil {
		return fields
	}
	fields.setOnce(FieldName, strings.TrimSpace(subject.Name))
	fields.setOnce(FieldNameCN, strings.TrimSpace(subject.NameCN))

	applyRules(fields, contributors, authorRules)
	if useWhitelist {
		if press, ok := firstWhitelisted(contributors, bangumi.RelationPublisher, whitelist); ok {
			fields.setOnce(FieldPress, press)
		}
	}
	applyRules(fields, contributors, pressRules)
	return fields
}

func applyRules(fields ResolvedFields, contributors []bangumi.Contributor, rules []relationRule) {
	for _, rule := range rules {
		if _, done := fields[rule.field]; done {
			continue
		}
		for _, c := range contributors {
			if strings.TrimSpace(c.Relation) != rule.relation {
				continue
			}
			if fields.setOnce(rule.field, strings.TrimSpace(c.Name)) {
				break
			}
		}
	}
}

func firstWhitelisted(contributors []bangumi.Contributor, relation string, whitelist Whitelist) (string, bool) {
	if whitelist.Len() == 0 {
		return "", false
	}
	for _, c := range contributors {
		if strings.TrimSpace(c.Relation) != relation {
			continue
		}
		name := strings.TrimSpace(c.Name)
		if name != "" && whitelist.Contains(name) {
			return name, true
		}
	}
	return "", false
}
