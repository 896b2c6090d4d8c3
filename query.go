package fluentsql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// Field is a projected column with an optional alias.
type Field struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// Order is a single ORDER BY specification.
type Order struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// UnionKind selects UNION or UNION ALL composition.
type UnionKind string

const (
	UnionDistinct UnionKind = "UNION"
	UnionAll      UnionKind = "UNION ALL"
)

// union is one appended set-composition pair.
type union struct {
	query *SelectQuery
	kind  UnionKind
}

// SelectQuery is the root AST node for a SELECT statement.
//
// The zero value from Select() is an empty query. Every builder method
// deep-copies the receiver, applies the change to the copy, and returns the
// copy: previously returned queries are never affected, so a query can be
// branched into independent variants at any point. Construction problems
// (such as an unsupported table source) are carried on the copy and surface
// from ToSQL, Table, or Serialize.
type SelectQuery struct {
	tables   []*Table
	joins    []*Join
	fields   []Field
	wheres   []Condition
	havings  []Condition
	groupBys []string
	orders   []Order
	limit    *int
	offset   *int
	unions   []union
	distinct bool
	err      error
}

// Select creates an empty SELECT query.
func Select() *SelectQuery {
	return &SelectQuery{}
}

func (q *SelectQuery) clone() *SelectQuery {
	c := &SelectQuery{distinct: q.distinct, err: q.err}
	if len(q.tables) > 0 {
		c.tables = make([]*Table, len(q.tables))
		for i, t := range q.tables {
			c.tables[i] = t.clone()
		}
	}
	if len(q.joins) > 0 {
		c.joins = make([]*Join, len(q.joins))
		for i, j := range q.joins {
			c.joins[i] = j.clone()
		}
	}
	c.fields = append([]Field(nil), q.fields...)
	c.wheres = cloneConditions(q.wheres)
	c.havings = cloneConditions(q.havings)
	c.groupBys = append([]string(nil), q.groupBys...)
	c.orders = append([]Order(nil), q.orders...)
	if q.limit != nil {
		v := *q.limit
		c.limit = &v
	}
	if q.offset != nil {
		v := *q.offset
		c.offset = &v
	}
	if len(q.unions) > 0 {
		c.unions = make([]union, len(q.unions))
		for i, u := range q.unions {
			c.unions[i] = union{query: u.query.clone(), kind: u.kind}
		}
	}
	return c
}

// Clone returns a deep copy of the query.
func (q *SelectQuery) Clone() *SelectQuery { return q.clone() }

// tableFromSource builds a Table from the accepted source kinds: a literal
// name, an existing *Table, or a nested *SelectQuery (which is cloned, never
// referenced).
func tableFromSource(source any, alias []string) (*Table, error) {
	var t *Table
	switch s := source.(type) {
	case string:
		t = &Table{name: s}
	case *Table:
		t = s.clone()
	case *SelectQuery:
		t = &Table{query: s.clone()}
	default:
		return nil, fmt.Errorf("unsupported table source type %T (want string, *Table, or *SelectQuery)", source)
	}
	if len(alias) > 0 {
		t.alias = alias[0]
	}
	return t, nil
}

// From replaces the table list with a single table. The source may be a
// table name, a *Table, or a nested *SelectQuery.
func (q *SelectQuery) From(source any, alias ...string) *SelectQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	t, err := tableFromSource(source, alias)
	if err != nil {
		c.err = err
		return c
	}
	c.tables = []*Table{t}
	return c
}

// Table returns the primary (first) table of the query. Reading it from a
// query with no table defined fails with ErrNoTable.
func (q *SelectQuery) Table() (*Table, error) {
	if q.err != nil {
		return nil, q.err
	}
	if len(q.tables) == 0 {
		return nil, ErrNoTable
	}
	return q.tables[0].clone(), nil
}

// Join appends an INNER JOIN. Omitting the condition joins unconditionally.
func (q *SelectQuery) Join(table any, on ...Condition) *SelectQuery {
	return q.addJoin(InnerJoin, table, on)
}

// InnerJoin appends an INNER JOIN.
func (q *SelectQuery) InnerJoin(table any, on ...Condition) *SelectQuery {
	return q.addJoin(InnerJoin, table, on)
}

// LeftJoin appends a LEFT JOIN.
func (q *SelectQuery) LeftJoin(table any, on ...Condition) *SelectQuery {
	return q.addJoin(LeftJoin, table, on)
}

// RightJoin appends a RIGHT JOIN.
func (q *SelectQuery) RightJoin(table any, on ...Condition) *SelectQuery {
	return q.addJoin(RightJoin, table, on)
}

// FullJoin appends a FULL JOIN.
func (q *SelectQuery) FullJoin(table any, on ...Condition) *SelectQuery {
	return q.addJoin(FullJoin, table, on)
}

func (q *SelectQuery) addJoin(kind JoinKind, table any, on []Condition) *SelectQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	t, err := tableFromSource(table, nil)
	if err != nil {
		c.err = err
		return c
	}
	j := &Join{table: t, kind: kind}
	switch len(on) {
	case 0:
	case 1:
		j.on = on[0].clone()
	default:
		j.on = And(on...)
	}
	c.joins = append(c.joins, j)
	return c
}

// AddField appends a projected column, preserving insertion order.
// Duplicate names are allowed and preserved.
func (q *SelectQuery) AddField(name string, alias ...string) *SelectQuery {
	c := q.clone()
	f := Field{Name: name}
	if len(alias) > 0 {
		f.Alias = alias[0]
	}
	c.fields = append(c.fields, f)
	return c
}

// Field appends a projected column.
//
// Deprecated: legacy name kept for callers of the original API; use AddField.
func (q *SelectQuery) Field(name string, alias ...string) *SelectQuery {
	return q.AddField(name, alias...)
}

// AddFields appends several projected columns without aliases.
func (q *SelectQuery) AddFields(names ...string) *SelectQuery {
	c := q.clone()
	for _, name := range names {
		c.fields = append(c.fields, Field{Name: name})
	}
	return c
}

// Fields replaces the projection list wholesale. An empty list selects all
// columns.
func (q *SelectQuery) Fields(fields ...Field) *SelectQuery {
	c := q.clone()
	c.fields = append([]Field(nil), fields...)
	return c
}

// RemoveFields clears the projection list, reverting to "select all".
func (q *SelectQuery) RemoveFields() *SelectQuery {
	c := q.clone()
	c.fields = nil
	return c
}

// Distinct makes the query render SELECT DISTINCT.
func (q *SelectQuery) Distinct() *SelectQuery {
	c := q.clone()
	c.distinct = true
	return c
}

// Where appends a filter condition. Multiple calls AND together in order.
func (q *SelectQuery) Where(condition Condition) *SelectQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	if condition == nil {
		c.err = fmt.Errorf("nil condition passed to Where")
		return c
	}
	c.wheres = append(c.wheres, condition.clone())
	return c
}

// Having appends a HAVING condition. Multiple calls AND together in order.
func (q *SelectQuery) Having(condition Condition) *SelectQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	if condition == nil {
		c.err = fmt.Errorf("nil condition passed to Having")
		return c
	}
	c.havings = append(c.havings, condition.clone())
	return c
}

// GroupBy appends grouping columns, preserving order.
func (q *SelectQuery) GroupBy(columns ...string) *SelectQuery {
	c := q.clone()
	c.groupBys = append(c.groupBys, columns...)
	return c
}

// RemoveGroupBy clears the grouping columns.
func (q *SelectQuery) RemoveGroupBy() *SelectQuery {
	c := q.clone()
	c.groupBys = nil
	return c
}

// OrderBy appends an order specification; the direction defaults to ASC.
func (q *SelectQuery) OrderBy(field string, direction ...Direction) *SelectQuery {
	c := q.clone()
	o := Order{Field: field, Direction: ASC}
	if len(direction) > 0 {
		o.Direction = direction[0]
	}
	c.orders = append(c.orders, o)
	return c
}

// RemoveOrderBy clears the ordering.
func (q *SelectQuery) RemoveOrderBy() *SelectQuery {
	c := q.clone()
	c.orders = nil
	return c
}

// Limit sets the row limit. A limit of 0 still renders "LIMIT 0": presence,
// not truthiness, triggers the clause.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	c := q.clone()
	c.limit = &n
	return c
}

// ClearLimit removes the row limit.
func (q *SelectQuery) ClearLimit() *SelectQuery {
	c := q.clone()
	c.limit = nil
	return c
}

// Offset sets the row offset. An offset of 0 still renders "OFFSET 0".
func (q *SelectQuery) Offset(n int) *SelectQuery {
	c := q.clone()
	c.offset = &n
	return c
}

// ClearOffset removes the row offset.
func (q *SelectQuery) ClearOffset() *SelectQuery {
	c := q.clone()
	c.offset = nil
	return c
}

// Union appends a set-composition pair; the kind defaults to UNION. The
// other query is cloned, so mutating it afterwards never changes this one.
func (q *SelectQuery) Union(other *SelectQuery, kind ...UnionKind) *SelectQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	if other == nil {
		c.err = fmt.Errorf("nil query passed to Union")
		return c
	}
	u := union{query: other.clone(), kind: UnionDistinct}
	if len(kind) > 0 {
		u.kind = kind[0]
	}
	c.unions = append(c.unions, u)
	return c
}

// ToSQL renders the query using the given flavor, or DefaultFlavor when
// omitted. Clause order is fixed: SELECT, FROM, JOIN, WHERE, GROUP BY,
// HAVING, ORDER BY, LIMIT, OFFSET, then union wrapping left to right.
func (q *SelectQuery) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	if q.err != nil {
		return "", q.err
	}
	if len(q.tables) == 0 {
		return "", ErrNoTable
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.distinct {
		sb.WriteString("DISTINCT ")
	}

	if len(q.fields) == 0 {
		sb.WriteString("*")
	} else {
		parts := make([]string, len(q.fields))
		for i, fl := range q.fields {
			s := f.EscapeColumn(fl.Name)
			if fl.Alias != "" {
				s += " AS " + f.EscapeColumn(fl.Alias)
			}
			parts[i] = s
		}
		sb.WriteString(strings.Join(parts, ", "))
	}

	sb.WriteString(" FROM ")
	tables := make([]string, len(q.tables))
	for i, t := range q.tables {
		s, err := t.ToSQL(f)
		if err != nil {
			return "", err
		}
		tables[i] = s
	}
	sb.WriteString(strings.Join(tables, ", "))

	for _, j := range q.joins {
		s, err := j.ToSQL(f)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ")
		sb.WriteString(s)
	}

	if len(q.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(joinConditions(q.wheres, f))
	}

	if len(q.groupBys) > 0 {
		sb.WriteString(" GROUP BY ")
		cols := make([]string, len(q.groupBys))
		for i, col := range q.groupBys {
			cols[i] = f.EscapeColumn(col)
		}
		sb.WriteString(strings.Join(cols, ", "))
	}

	if len(q.havings) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(joinConditions(q.havings, f))
	}

	if len(q.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		parts := make([]string, len(q.orders))
		for i, o := range q.orders {
			parts[i] = f.EscapeColumn(o.Field) + " " + string(o.Direction)
		}
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *q.limit)
	}
	if q.offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *q.offset)
	}

	sql := sb.String()
	for _, u := range q.unions {
		other, err := u.query.ToSQL(f)
		if err != nil {
			return "", err
		}
		sql = "(" + sql + ") " + string(u.kind) + " (" + other + ")"
	}
	return sql, nil
}

// String renders with the default flavor, folding errors into the output.
// Intended for debugging only.
func (q *SelectQuery) String() string {
	sql, err := q.ToSQL()
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return sql
}

// joinConditions renders an implicitly AND-ed condition sequence.
func joinConditions(conditions []Condition, f Flavor) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.ToSQL(f)
	}
	return strings.Join(parts, " AND ")
}

func (q *SelectQuery) encode() map[string]any {
	m := map[string]any{"type": tagSelectQuery}
	if len(q.tables) > 0 {
		m["tables"] = q.tables
	}
	if len(q.joins) > 0 {
		m["joins"] = q.joins
	}
	if len(q.fields) > 0 {
		m["fields"] = q.fields
	}
	if len(q.wheres) > 0 {
		m["wheres"] = q.wheres
	}
	if len(q.havings) > 0 {
		m["havings"] = q.havings
	}
	if len(q.groupBys) > 0 {
		m["groupBy"] = q.groupBys
	}
	if len(q.orders) > 0 {
		m["orders"] = q.orders
	}
	if q.limit != nil {
		m["limit"] = *q.limit
	}
	if q.offset != nil {
		m["offset"] = *q.offset
	}
	if q.distinct {
		m["distinct"] = true
	}
	if len(q.unions) > 0 {
		unions := make([]unionJSON, len(q.unions))
		for i, u := range q.unions {
			unions[i] = unionJSON{Query: u.query, Kind: u.kind}
		}
		m["unions"] = unions
	}
	return m
}

// MarshalJSON encodes the query as a type-tagged JSON object. A query
// carrying a construction error refuses to serialize.
func (q *SelectQuery) MarshalJSON() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return json.Marshal(q.encode())
}

// Serialize returns the query encoded as a JSON string.
func (q *SelectQuery) Serialize() (string, error) { return serializeNode(q) }
