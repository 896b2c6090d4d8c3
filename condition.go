package fluentsql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Condition is a boolean predicate node in the query AST.
//
// The variant set is closed: conditions are built through the package-level
// constructors (Equal, Between, In, And, ...) and cannot be implemented
// outside this package. Conditions are pure values; builders deep-copy them
// on attachment so two queries never share predicate state.
type Condition interface {
	Node

	// ToSQL renders the predicate using the given flavor, or DefaultFlavor
	// when omitted.
	ToSQL(flavor ...Flavor) string

	clone() Condition
	encode() map[string]any
}

// Equal matches rows where column equals value.
func Equal(column string, value any) Condition {
	return &compareCondition{tag: tagEqual, op: "=", column: column, value: value}
}

// NotEqual matches rows where column differs from value.
func NotEqual(column string, value any) Condition {
	return &compareCondition{tag: tagNotEqual, op: "<>", column: column, value: value}
}

// GreaterThan matches rows where column is strictly greater than value.
func GreaterThan(column string, value any) Condition {
	return &compareCondition{tag: tagGreaterThan, op: ">", column: column, value: value}
}

// LessThan matches rows where column is strictly less than value.
func LessThan(column string, value any) Condition {
	return &compareCondition{tag: tagLessThan, op: "<", column: column, value: value}
}

// Like matches rows where column matches the SQL pattern.
func Like(column string, pattern any) Condition {
	return &compareCondition{tag: tagLike, op: "LIKE", column: column, value: pattern}
}

// NotLike matches rows where column does not match the SQL pattern.
func NotLike(column string, pattern any) Condition {
	return &compareCondition{tag: tagNotLike, op: "NOT LIKE", column: column, value: pattern}
}

// Between matches rows where column lies within [low, high], bounds included.
func Between(column string, low, high any) Condition {
	return &betweenCondition{column: column, low: low, high: high}
}

// In matches rows where column equals one of values. An empty value list
// renders as "col IN (NULL)", which is valid SQL and never true.
func In(column string, values ...any) Condition {
	return &inCondition{column: column, values: append([]any(nil), values...)}
}

// Null matches rows where column is NULL.
func Null(column string) Condition {
	return &nullCondition{column: column}
}

// NotNull matches rows where column is not NULL.
func NotNull(column string) Condition {
	return &nullCondition{column: column, not: true}
}

// ColumnEqual matches rows where two columns hold the same value. Both sides
// are escaped as identifiers, making it the usual join predicate.
func ColumnEqual(left, right string) Condition {
	return &columnCondition{left: left, right: right}
}

// And combines conditions so that all must hold. Each child renders
// parenthesized. With no children it renders the AND identity "(1 = 1)".
func And(conditions ...Condition) Condition {
	return &logicCondition{tag: tagAnd, op: "AND", conditions: cloneConditions(conditions)}
}

// Or combines conditions so that at least one must hold. Each child renders
// parenthesized. With no children it renders the OR identity "(1 = 0)".
func Or(conditions ...Condition) Condition {
	return &logicCondition{tag: tagOr, op: "OR", conditions: cloneConditions(conditions)}
}

// cloneConditions deep-copies a condition slice so the owner never aliases
// predicate state with the caller or another query.
func cloneConditions(conditions []Condition) []Condition {
	if conditions == nil {
		return nil
	}
	out := make([]Condition, len(conditions))
	for i, c := range conditions {
		out[i] = c.clone()
	}
	return out
}

// compareCondition covers the binary operators sharing the
// "column <op> literal" shape.
type compareCondition struct {
	tag    string
	op     string
	column string
	value  any
}

func (c *compareCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	return fmt.Sprintf("%s %s %s", f.EscapeColumn(c.column), c.op, formatValue(c.value))
}

func (c *compareCondition) clone() Condition {
	cp := *c
	return &cp
}

func (c *compareCondition) encode() map[string]any {
	return map[string]any{"type": c.tag, "column": c.column, "value": c.value}
}

func (c *compareCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *compareCondition) Serialize() (string, error) { return serializeNode(c) }

type betweenCondition struct {
	column string
	low    any
	high   any
}

func (c *betweenCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	return fmt.Sprintf("%s BETWEEN %s AND %s", f.EscapeColumn(c.column), formatValue(c.low), formatValue(c.high))
}

func (c *betweenCondition) clone() Condition {
	cp := *c
	return &cp
}

func (c *betweenCondition) encode() map[string]any {
	return map[string]any{"type": tagBetween, "column": c.column, "low": c.low, "high": c.high}
}

func (c *betweenCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *betweenCondition) Serialize() (string, error) { return serializeNode(c) }

type inCondition struct {
	column string
	values []any
}

func (c *inCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	if len(c.values) == 0 {
		// Valid in every dialect and never true: x IN (NULL) is NULL.
		return f.EscapeColumn(c.column) + " IN (NULL)"
	}
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = formatValue(v)
	}
	return f.EscapeColumn(c.column) + " IN (" + strings.Join(parts, ", ") + ")"
}

func (c *inCondition) clone() Condition {
	return &inCondition{column: c.column, values: append([]any(nil), c.values...)}
}

func (c *inCondition) encode() map[string]any {
	values := c.values
	if values == nil {
		values = []any{}
	}
	return map[string]any{"type": tagIn, "column": c.column, "values": values}
}

func (c *inCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *inCondition) Serialize() (string, error) { return serializeNode(c) }

type nullCondition struct {
	column string
	not    bool
}

func (c *nullCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	if c.not {
		return f.EscapeColumn(c.column) + " IS NOT NULL"
	}
	return f.EscapeColumn(c.column) + " IS NULL"
}

func (c *nullCondition) clone() Condition {
	cp := *c
	return &cp
}

func (c *nullCondition) encode() map[string]any {
	tag := tagIsNull
	if c.not {
		tag = tagIsNotNull
	}
	return map[string]any{"type": tag, "column": c.column}
}

func (c *nullCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *nullCondition) Serialize() (string, error) { return serializeNode(c) }

type columnCondition struct {
	left  string
	right string
}

func (c *columnCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	return f.EscapeColumn(c.left) + " = " + f.EscapeColumn(c.right)
}

func (c *columnCondition) clone() Condition {
	cp := *c
	return &cp
}

func (c *columnCondition) encode() map[string]any {
	return map[string]any{"type": tagColumnEqual, "left": c.left, "right": c.right}
}

func (c *columnCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *columnCondition) Serialize() (string, error) { return serializeNode(c) }

// logicCondition combines child conditions with AND or OR. It owns its
// children exclusively; constructors and clone copy the slice.
type logicCondition struct {
	tag        string
	op         string
	conditions []Condition
}

func (c *logicCondition) ToSQL(flavor ...Flavor) string {
	f := pickFlavor(flavor)
	if len(c.conditions) == 0 {
		// Identity element, so an empty group never changes the result.
		if c.op == "AND" {
			return "(1 = 1)"
		}
		return "(1 = 0)"
	}
	parts := make([]string, len(c.conditions))
	for i, child := range c.conditions {
		parts[i] = "(" + child.ToSQL(f) + ")"
	}
	return strings.Join(parts, " "+c.op+" ")
}

func (c *logicCondition) clone() Condition {
	return &logicCondition{tag: c.tag, op: c.op, conditions: cloneConditions(c.conditions)}
}

func (c *logicCondition) encode() map[string]any {
	conditions := c.conditions
	if conditions == nil {
		conditions = []Condition{}
	}
	return map[string]any{"type": c.tag, "conditions": conditions}
}

func (c *logicCondition) MarshalJSON() ([]byte, error) { return json.Marshal(c.encode()) }

func (c *logicCondition) Serialize() (string, error) { return serializeNode(c) }
