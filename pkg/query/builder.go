package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/goindex/pkg/db/models"
	"gorm.io/gorm"
)

// ErrUnsupportedPredicate is returned when a predicate family is set that the target has no column for
var ErrUnsupportedPredicate = errors.New("unsupported predicate")

const likeEscape = `ESCAPE '\'`

// Clause is a single parameterized WHERE condition
type Clause struct {
	SQL  string
	Args []any
}

// Query is the composed, side-effect free result of Build
type Query struct {
	Table   string
	Where   []Clause
	OrderBy string
	Limit   int
}

// Scope applies the query to a gorm statement. It is meant for db.Scopes.
func (q Query) Scope(db *gorm.DB) *gorm.DB {
	for _, c := range q.Where {
		db = db.Where(c.SQL, c.Args...)
	}
	if q.OrderBy != "" {
		db = db.Order(q.OrderBy)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}

// Build composes predicates into a query against target. Families are
// ANDed together; values inside a family are ORed.
func Build(target Target, p Predicates, now time.Time) (Query, error) {
	q := Query{
		Table: target.Table,
		Limit: p.Limit,
	}

	if err := q.addName(target, p); err != nil {
		return Query{}, err
	}
	if err := q.addTags(target, p); err != nil {
		return Query{}, err
	}
	if err := q.addRecency(target, p, now); err != nil {
		return Query{}, err
	}
	if err := q.addExtensions(target, p); err != nil {
		return Query{}, err
	}
	if err := q.addInfo(target, p); err != nil {
		return Query{}, err
	}
	if err := q.addAttributes(target, p); err != nil {
		return Query{}, err
	}

	order := p.Order
	if order == "" {
		order = target.DefaultOrder
	}
	if order != "" {
		orderBy, ok := target.Orders[order]
		if !ok {
			return Query{}, fmt.Errorf("%w: order '%s' on %s", ErrUnsupportedPredicate, order, target.Table)
		}
		q.OrderBy = orderBy
	}

	return q, nil
}

func (q *Query) add(sql string, args ...any) {
	q.Where = append(q.Where, Clause{SQL: sql, Args: args})
}

func (q *Query) addName(t Target, p Predicates) error {
	if p.Name == "" && p.ExcludeName == "" {
		return nil
	}
	if len(t.NameColumns) == 0 {
		return fmt.Errorf("%w: name on %s", ErrUnsupportedPredicate, t.Table)
	}

	if p.Name != "" {
		parts := make([]string, 0, len(t.NameColumns))
		args := make([]any, 0, len(t.NameColumns))
		for _, col := range t.NameColumns {
			parts = append(parts, fmt.Sprintf("%s LIKE ? %s", col, likeEscape))
			args = append(args, likePattern(p.Name))
		}
		q.add("("+strings.Join(parts, " OR ")+")", args...)
	}

	if p.ExcludeName != "" {
		parts := make([]string, 0, len(t.NameColumns))
		args := make([]any, 0, len(t.NameColumns))
		for _, col := range t.NameColumns {
			parts = append(parts, fmt.Sprintf("COALESCE(%s, '') NOT LIKE ? %s", col, likeEscape))
			args = append(args, likePattern(p.ExcludeName))
		}
		q.add("("+strings.Join(parts, " AND ")+")", args...)
	}

	return nil
}

func (q *Query) addTags(t Target, p Predicates) error {
	if p.Tag == "" && p.ExcludeTag == "" {
		return nil
	}

	switch t.Tags {
	case TagsMetadata:
		sub := fmt.Sprintf("SELECT file_id FROM metadata WHERE key = ? AND value LIKE ? %s", likeEscape)
		if p.Tag != "" {
			q.add(fmt.Sprintf("%s IN (%s)", t.IDColumn, sub), models.TagKey, likePattern(p.Tag))
		}
		if p.ExcludeTag != "" {
			q.add(fmt.Sprintf("%s NOT IN (%s)", t.IDColumn, sub), models.TagKey, likePattern(p.ExcludeTag))
		}
	case TagsInline:
		if p.Tag != "" {
			q.add(fmt.Sprintf("%s LIKE ? %s", t.TagColumn, likeEscape), likePattern(p.Tag))
		}
		if p.ExcludeTag != "" {
			q.add(fmt.Sprintf("(%s IS NULL OR %s NOT LIKE ? %s)", t.TagColumn, t.TagColumn, likeEscape), likePattern(p.ExcludeTag))
		}
	default:
		return fmt.Errorf("%w: tag on %s", ErrUnsupportedPredicate, t.Table)
	}

	return nil
}

func (q *Query) addRecency(t Target, p Predicates, now time.Time) error {
	if p.Days == nil {
		return nil
	}
	if t.ModifiedColumn == "" {
		return fmt.Errorf("%w: recency on %s", ErrUnsupportedPredicate, t.Table)
	}

	cutoff := now.AddDate(0, 0, -*p.Days).UTC()
	q.add(fmt.Sprintf("%s >= ?", t.ModifiedColumn), cutoff)
	return nil
}

func (q *Query) addExtensions(t Target, p Predicates) error {
	include := ParseExtensions(strings.Join(p.Extensions, ","))
	exclude := ParseExtensions(strings.Join(p.ExcludeExtensions, ","))
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}
	if t.ExtensionColumn == "" || t.KindColumn == "" {
		return fmt.Errorf("%w: extension on %s", ErrUnsupportedPredicate, t.Table)
	}

	ext := fmt.Sprintf("lower(%s)", t.ExtensionColumn)

	if len(include) > 0 {
		web, concrete := splitExtensions(include)
		switch {
		case web && len(concrete) == 0:
			q.add(fmt.Sprintf("%s = ?", t.KindColumn), models.ResourceWeb)
		case web:
			q.add(fmt.Sprintf("(%s = ? OR %s IN ?)", t.KindColumn, ext), models.ResourceWeb, concrete)
		default:
			q.add(fmt.Sprintf("%s IN ?", ext), concrete)
		}
	}

	if len(exclude) > 0 {
		web, concrete := splitExtensions(exclude)
		if web {
			q.add(fmt.Sprintf("%s <> ?", t.KindColumn), models.ResourceWeb)
		}
		if len(concrete) > 0 {
			q.add(fmt.Sprintf("(%s IS NULL OR %s NOT IN ?)", t.ExtensionColumn, ext), concrete)
		}
	}

	return nil
}

func (q *Query) addInfo(t Target, p Predicates) error {
	if p.Info == InfoAny {
		return nil
	}
	if !t.Info {
		return fmt.Errorf("%w: info on %s", ErrUnsupportedPredicate, t.Table)
	}

	described := fmt.Sprintf("%s IN (SELECT file_id FROM descriptions)", t.IDColumn)
	tagged := fmt.Sprintf("%s IN (SELECT file_id FROM metadata WHERE key = ?)", t.IDColumn)

	switch p.Info {
	case InfoPresent:
		q.add(fmt.Sprintf("(%s OR %s)", described, tagged), models.TagKey)
	case InfoAbsent:
		q.add(fmt.Sprintf("NOT (%s OR %s)", described, tagged), models.TagKey)
	default:
		return fmt.Errorf("%w: info state %d", ErrUnsupportedPredicate, p.Info)
	}

	return nil
}

func (q *Query) addAttributes(t Target, p Predicates) error {
	attributes := []struct {
		name   string
		value  string
		column string
	}{
		{"platform", p.Platform, t.PlatformColumn},
		{"category", p.Category, t.CategoryColumn},
		{"status", p.Status, t.StatusColumn},
	}

	for _, a := range attributes {
		if a.value == "" {
			continue
		}
		if a.column == "" {
			return fmt.Errorf("%w: %s on %s", ErrUnsupportedPredicate, a.name, t.Table)
		}
		q.add(fmt.Sprintf("%s LIKE ? %s", a.column, likeEscape), likePattern(a.value))
	}

	return nil
}

// likePattern wraps s for a substring LIKE match, escaping LIKE wildcards
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
