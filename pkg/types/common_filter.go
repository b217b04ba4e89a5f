package types

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq        CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq     CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt        CommonFilterOperator = "lt"
	CommonFilterOperatorLte       CommonFilterOperator = "lte"
	CommonFilterOperatorGt        CommonFilterOperator = "gt"
	CommonFilterOperatorGte       CommonFilterOperator = "gte"
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	CommonFilterOperatorRange     CommonFilterOperator = "range"
	CommonFilterOperatorIn        CommonFilterOperator = "in"
)

// CommonFilter is a JSON-friendly query condition the admin listing
// endpoints accept. A filter either names a field/operator/values triple or
// carries nested Filters, which combine with AND.
type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
	Filters  []CommonFilter       `json:"filters"`
}

// Build implements clause.Expression. Unknown operators and arity mismatches
// build nothing rather than erroring, since filters arrive from API input.
func (f *CommonFilter) Build(builder clause.Builder) {
	if expr := f.expression(); expr != nil {
		expr.Build(builder)
	}
}

func (f *CommonFilter) expression() clause.Expression {
	if len(f.Filters) > 0 {
		exprs := make([]clause.Expression, 0, len(f.Filters))
		for i := range f.Filters {
			if e := f.Filters[i].expression(); e != nil {
				exprs = append(exprs, e)
			}
		}
		if len(exprs) == 0 {
			return nil
		}
		return clause.And(exprs...)
	}

	if len(f.Values) == 0 || !validField(f.Field) {
		return nil
	}
	value := f.Values[0]

	switch f.Operator {
	case CommonFilterOperatorEq:
		// jsonb path fields (-> / ->>) need a raw expression; clause.Eq
		// would quote the whole path as a column name.
		if strings.Contains(f.Field, "->") {
			return clause.Expr{SQL: fmt.Sprintf("%s = ?", f.Field), Vars: []any{value}}
		}
		return clause.Eq{Column: f.Field, Value: value}
	case CommonFilterOperatorNotEq:
		return clause.Neq{Column: f.Field, Value: value}
	case CommonFilterOperatorLt:
		return clause.Lt{Column: f.Field, Value: value}
	case CommonFilterOperatorLte:
		return clause.Lte{Column: f.Field, Value: value}
	case CommonFilterOperatorGt:
		return clause.Gt{Column: f.Field, Value: value}
	case CommonFilterOperatorGte:
		return clause.Gte{Column: f.Field, Value: value}
	case CommonFilterOperatorRange, CommonFilterOperatorDateRange:
		if len(f.Values) < 2 {
			return nil
		}
		return clause.And(
			clause.Gte{Column: f.Field, Value: f.Values[0]},
			clause.Lte{Column: f.Field, Value: f.Values[1]},
		)
	case CommonFilterOperatorIn:
		return clause.IN{Column: f.Field, Values: f.Values}
	}
	return nil
}

var (
	columnRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	jsonPathRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(->>?'[A-Za-z0-9_]+')+$`)
)

// validField admits plain (optionally table-qualified) column names and
// quoted jsonb path expressions. Field names come from API input and the
// jsonb branch above interpolates them into SQL, so anything else builds
// nothing.
func validField(field string) bool {
	if strings.Contains(field, "->") {
		return jsonPathRe.MatchString(field)
	}
	return columnRe.MatchString(field)
}
