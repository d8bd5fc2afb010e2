// internal/app/search/filter.go
package search

import (
	"sort"
	"strings"

	"github.com/qdrant/go-client/qdrant"
)

// clause is one AND-ed group: an OR of equality matches on a single field.
type clause struct {
	field  string
	values []string
}

// Composition is the boolean filter tree sent to the external backend:
// every clause is ANDed, multiple values inside one clause are ORed.
type Composition struct {
	clauses []clause
}

// ComposeFilter builds the backend filter in the documented order:
// configured default filters first (always ANDed), then the legacy
// category/type values mapped onto the first two configured filter fields,
// then the arbitrary named multi-value filters from the request.
func ComposeFilter(defaults map[string]string, filterFields []string, category, itemType string, filters map[string][]string) Composition {
	var c Composition

	for _, key := range sortedKeys(defaults) {
		c.clauses = append(c.clauses, clause{field: key, values: []string{defaults[key]}})
	}

	if category != "" && len(filterFields) > 0 {
		c.clauses = append(c.clauses, clause{field: filterFields[0], values: []string{category}})
	}
	if itemType != "" && len(filterFields) > 1 {
		c.clauses = append(c.clauses, clause{field: filterFields[1], values: []string{itemType}})
	}

	for _, key := range sortedFilterKeys(filters) {
		values := filters[key]
		if len(values) == 0 {
			continue
		}
		c.clauses = append(c.clauses, clause{field: key, values: values})
	}

	return c
}

// Empty reports whether the composition carries no constraints.
func (c Composition) Empty() bool { return len(c.clauses) == 0 }

// String renders the canonical expression form, with single quotes in
// values doubled for safe embedding, e.g.
//
//	tenant eq 'acme' and (type eq 'doc' or type eq 'faq')
func (c Composition) String() string {
	if c.Empty() {
		return ""
	}
	groups := make([]string, 0, len(c.clauses))
	for _, cl := range c.clauses {
		parts := make([]string, 0, len(cl.values))
		for _, v := range cl.values {
			parts = append(parts, cl.field+" eq '"+escapeFilterValue(v)+"'")
		}
		group := strings.Join(parts, " or ")
		if len(parts) > 1 {
			group = "(" + group + ")"
		}
		groups = append(groups, group)
	}
	return strings.Join(groups, " and ")
}

// Qdrant translates the composition into a structured qdrant filter: one
// Must condition per clause, with multi-value clauses nested as a Should
// sub-filter.
func (c Composition) Qdrant() *qdrant.Filter {
	if c.Empty() {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(c.clauses))
	for _, cl := range c.clauses {
		if len(cl.values) == 1 {
			must = append(must, keywordCondition(cl.field, cl.values[0]))
			continue
		}
		should := make([]*qdrant.Condition, 0, len(cl.values))
		for _, v := range cl.values {
			should = append(should, keywordCondition(cl.field, v))
		}
		must = append(must, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Filter{
				Filter: &qdrant.Filter{Should: should},
			},
		})
	}
	return &qdrant.Filter{Must: must}
}

func keywordCondition(field, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: field,
				Match: &qdrant.Match{
					MatchValue: &qdrant.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

// escapeFilterValue doubles single quotes so values embed safely in the
// canonical expression.
func escapeFilterValue(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFilterKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
