package crud

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// Compiled is the translation of a filter list: predicates to be combined
// with AND, plus the relations that must be joined for them.
type Compiled struct {
	Exprs []clause.Expression
	Joins []*Relation
}

// Compile translates filters into table-qualified predicates on schema.
// A field is either a column of schema or "relation.column" on a directly
// related schema. Deeper paths are rejected. Compile performs no I/O.
func Compile(schema *Schema, filters []domain.Filter) (*Compiled, error) {
	out := &Compiled{Exprs: make([]clause.Expression, 0, len(filters))}
	joined := make(map[*Relation]bool)

	for _, f := range filters {
		col, rel, err := resolve(schema, f.Field)
		if err != nil {
			return nil, err
		}
		expr, err := predicate(col, f.Operator, f.Value)
		if err != nil {
			return nil, err
		}
		out.Exprs = append(out.Exprs, expr)
		if rel != nil && !joined[rel] {
			joined[rel] = true
			out.Joins = append(out.Joins, rel)
		}
	}
	return out, nil
}

// resolve looks up a field path, following at most one relationship hop.
func resolve(schema *Schema, path string) (clause.Column, *Relation, error) {
	segments := strings.Split(path, ".")
	switch len(segments) {
	case 1:
		col, ok := schema.column(path)
		if !ok {
			return clause.Column{}, nil, invalidArgument(fmt.Errorf("%w %q on %s", ErrUnknownField, path, schema.Table))
		}
		return col, nil, nil
	case 2:
		rel, ok := schema.relation(segments[0])
		if !ok {
			return clause.Column{}, nil, invalidArgument(fmt.Errorf("%w %q on %s", ErrUnknownRelation, segments[0], schema.Table))
		}
		col, ok := rel.Target.column(segments[1])
		if !ok {
			return clause.Column{}, nil, invalidArgument(fmt.Errorf("%w %q on %s", ErrUnknownField, path, schema.Table))
		}
		return col, rel, nil
	default:
		return clause.Column{}, nil, invalidArgument(fmt.Errorf("%w %q: only one relationship hop is supported", ErrUnknownField, path))
	}
}

func predicate(col clause.Column, op domain.Operator, value any) (clause.Expression, error) {
	switch op {
	case domain.OpEq:
		return clause.Eq{Column: col, Value: value}, nil
	case domain.OpNeq:
		return clause.Neq{Column: col, Value: value}, nil
	case domain.OpContains:
		return substring{Column: col, Pattern: likePattern(value)}, nil
	case domain.OpNotContains:
		return substring{Column: col, Pattern: likePattern(value), Negate: true}, nil
	case domain.OpGt:
		return clause.Gt{Column: col, Value: value}, nil
	case domain.OpGte:
		return clause.Gte{Column: col, Value: value}, nil
	case domain.OpLt:
		return clause.Lt{Column: col, Value: value}, nil
	case domain.OpLte:
		return clause.Lte{Column: col, Value: value}, nil
	default:
		return nil, invalidArgument(&UnsupportedOperatorError{Operator: op})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps value in wildcards after escaping the LIKE
// metacharacters it contains, so it only ever matches literally.
func likePattern(value any) string {
	return "%" + likeEscaper.Replace(fmt.Sprint(value)) + "%"
}

// substring renders "col [NOT] LIKE ? ESCAPE '\'" with a pattern built by
// likePattern.
type substring struct {
	Column  clause.Column
	Pattern string
	Negate  bool
}

func (s substring) Build(builder clause.Builder) {
	builder.WriteQuoted(s.Column)
	if s.Negate {
		builder.WriteString(" NOT LIKE ")
	} else {
		builder.WriteString(" LIKE ")
	}
	builder.AddVar(builder, s.Pattern)
	builder.WriteString(` ESCAPE '\'`)
}

// NegationBuild lets clause.Not flip the operator instead of wrapping it.
func (s substring) NegationBuild(builder clause.Builder) {
	substring{Column: s.Column, Pattern: s.Pattern, Negate: !s.Negate}.Build(builder)
}
