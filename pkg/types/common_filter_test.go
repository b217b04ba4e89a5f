package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestCommonFilter_FieldValidation(t *testing.T) {
	cases := []struct {
		name  string
		field string
		ok    bool
	}{
		{"plain column", "order_status", true},
		{"qualified column", "app_order.order_status", true},
		{"jsonb path", "payment_result->>'status'", true},
		{"nested jsonb path", "payment_result->'card'->>'last_four'", true},
		{"statement injection", `order_status = 'paid'; DROP TABLE app_order;--`, false},
		{"jsonb path injection", `payment_result->>'status' OR 1=1`, false},
		{"unquoted jsonb key", "payment_result->>status", false},
		{"embedded quote", `payment_result->>'st'||'atus'`, false},
		{"empty field", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &CommonFilter{Field: tc.field, Operator: CommonFilterOperatorEq, Values: []any{"paid"}}
			if tc.ok {
				require.NotNil(t, f.expression(), "field %q should build", tc.field)
			} else {
				require.Nil(t, f.expression(), "field %q must build nothing", tc.field)
			}
		})
	}
}

func TestCommonFilter_Operators(t *testing.T) {
	eq := &CommonFilter{Field: "total", Operator: CommonFilterOperatorEq, Values: []any{100}}
	require.IsType(t, clause.Eq{}, eq.expression())

	in := &CommonFilter{Field: "order_status", Operator: CommonFilterOperatorIn, Values: []any{"paid", "shipped"}}
	require.IsType(t, clause.IN{}, in.expression())

	rng := &CommonFilter{Field: "created_at", Operator: CommonFilterOperatorDateRange, Values: []any{"2026-01-01", "2026-02-01"}}
	require.NotNil(t, rng.expression())

	short := &CommonFilter{Field: "created_at", Operator: CommonFilterOperatorRange, Values: []any{"2026-01-01"}}
	require.Nil(t, short.expression(), "range needs two values")

	unknown := &CommonFilter{Field: "total", Operator: "like", Values: []any{"%x%"}}
	require.Nil(t, unknown.expression())
}

func TestCommonFilter_NestedFiltersCombineWithAnd(t *testing.T) {
	f := &CommonFilter{Filters: []CommonFilter{
		{Field: "order_status", Operator: CommonFilterOperatorEq, Values: []any{"processing"}},
		{Field: "total", Operator: CommonFilterOperatorGte, Values: []any{1000}},
	}}
	require.NotNil(t, f.expression())

	empty := &CommonFilter{Filters: []CommonFilter{{Field: "bad field!", Operator: CommonFilterOperatorEq, Values: []any{1}}}}
	require.Nil(t, empty.expression(), "nested invalid fields build nothing")
}
