package fluentsql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeleteQuery is the AST root for a DELETE statement. It follows the same
// immutable builder protocol as SelectQuery.
type DeleteQuery struct {
	table  *Table
	wheres []Condition
	err    error
}

// Delete creates a DELETE statement targeting the given table. The source
// may be a table name or a *Table.
func Delete(from any, alias ...string) *DeleteQuery {
	q := &DeleteQuery{}
	t, err := tableFromSource(from, alias)
	if err != nil {
		q.err = err
		return q
	}
	q.table = t
	return q
}

func (q *DeleteQuery) clone() *DeleteQuery {
	c := &DeleteQuery{err: q.err}
	if q.table != nil {
		c.table = q.table.clone()
	}
	c.wheres = cloneConditions(q.wheres)
	return c
}

// Clone returns a deep copy of the statement.
func (q *DeleteQuery) Clone() *DeleteQuery { return q.clone() }

// Table returns the target table, or ErrNoTable when none is defined.
func (q *DeleteQuery) Table() (*Table, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.table == nil {
		return nil, ErrNoTable
	}
	return q.table.clone(), nil
}

// Where appends a filter condition. Multiple calls AND together in order.
func (q *DeleteQuery) Where(condition Condition) *DeleteQuery {
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

// ToSQL renders "DELETE FROM <table> [WHERE ...]".
func (q *DeleteQuery) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	if q.err != nil {
		return "", q.err
	}
	if q.table == nil {
		return "", ErrNoTable
	}
	table, err := q.table.ToSQL(f)
	if err != nil {
		return "", err
	}
	sql := "DELETE FROM " + table
	if len(q.wheres) > 0 {
		sql += " WHERE " + joinConditions(q.wheres, f)
	}
	return sql, nil
}

// String renders with the default flavor, folding errors into the output.
func (q *DeleteQuery) String() string {
	sql, err := q.ToSQL()
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return sql
}

func (q *DeleteQuery) encode() map[string]any {
	m := map[string]any{"type": tagDelete, "table": q.table}
	if len(q.wheres) > 0 {
		m["wheres"] = q.wheres
	}
	return m
}

// MarshalJSON encodes the statement as a type-tagged JSON object.
func (q *DeleteQuery) MarshalJSON() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return json.Marshal(q.encode())
}

// Serialize returns the statement encoded as a JSON string.
func (q *DeleteQuery) Serialize() (string, error) { return serializeNode(q) }

// assignment is one "column = value" pair in an UPDATE or INSERT.
type assignment struct {
	column string
	value  any
}

// UpdateQuery is the AST root for an UPDATE statement.
type UpdateQuery struct {
	table  *Table
	sets   []assignment
	wheres []Condition
	err    error
}

// Update creates an UPDATE statement targeting the given table. The source
// may be a table name or a *Table.
func Update(table any, alias ...string) *UpdateQuery {
	q := &UpdateQuery{}
	t, err := tableFromSource(table, alias)
	if err != nil {
		q.err = err
		return q
	}
	q.table = t
	return q
}

func (q *UpdateQuery) clone() *UpdateQuery {
	c := &UpdateQuery{err: q.err}
	if q.table != nil {
		c.table = q.table.clone()
	}
	c.sets = append([]assignment(nil), q.sets...)
	c.wheres = cloneConditions(q.wheres)
	return c
}

// Clone returns a deep copy of the statement.
func (q *UpdateQuery) Clone() *UpdateQuery { return q.clone() }

// Table returns the target table, or ErrNoTable when none is defined.
func (q *UpdateQuery) Table() (*Table, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.table == nil {
		return nil, ErrNoTable
	}
	return q.table.clone(), nil
}

// Set appends a "column = value" assignment, preserving call order.
func (q *UpdateQuery) Set(column string, value any) *UpdateQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	c.sets = append(c.sets, assignment{column: column, value: value})
	return c
}

// Where appends a filter condition. Multiple calls AND together in order.
func (q *UpdateQuery) Where(condition Condition) *UpdateQuery {
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

// ToSQL renders "UPDATE <table> SET <assignments> [WHERE ...]".
func (q *UpdateQuery) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	if q.err != nil {
		return "", q.err
	}
	if q.table == nil {
		return "", ErrNoTable
	}
	if len(q.sets) == 0 {
		return "", fmt.Errorf("UPDATE requires at least one SET assignment")
	}
	table, err := q.table.ToSQL(f)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(q.sets))
	for i, a := range q.sets {
		parts[i] = f.EscapeColumn(a.column) + " = " + formatValue(a.value)
	}
	sql := "UPDATE " + table + " SET " + strings.Join(parts, ", ")
	if len(q.wheres) > 0 {
		sql += " WHERE " + joinConditions(q.wheres, f)
	}
	return sql, nil
}

// String renders with the default flavor, folding errors into the output.
func (q *UpdateQuery) String() string {
	sql, err := q.ToSQL()
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return sql
}

func (q *UpdateQuery) encode() map[string]any {
	m := map[string]any{"type": tagUpdate, "table": q.table}
	if len(q.sets) > 0 {
		sets := make([]map[string]any, len(q.sets))
		for i, a := range q.sets {
			sets[i] = map[string]any{"column": a.column, "value": a.value}
		}
		m["sets"] = sets
	}
	if len(q.wheres) > 0 {
		m["wheres"] = q.wheres
	}
	return m
}

// MarshalJSON encodes the statement as a type-tagged JSON object.
func (q *UpdateQuery) MarshalJSON() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return json.Marshal(q.encode())
}

// Serialize returns the statement encoded as a JSON string.
func (q *UpdateQuery) Serialize() (string, error) { return serializeNode(q) }

// InsertQuery is the AST root for an INSERT statement. Rows are built with
// Set; NextRow finalizes the current row and starts another. Column order is
// taken from the first row.
type InsertQuery struct {
	table string
	rows  [][]assignment
	err   error
}

// Insert creates an INSERT statement targeting the named table.
func Insert(into string) *InsertQuery {
	return &InsertQuery{table: into}
}

func (q *InsertQuery) clone() *InsertQuery {
	c := &InsertQuery{table: q.table, err: q.err}
	if len(q.rows) > 0 {
		c.rows = make([][]assignment, len(q.rows))
		for i, row := range q.rows {
			c.rows[i] = append([]assignment(nil), row...)
		}
	}
	return c
}

// Clone returns a deep copy of the statement.
func (q *InsertQuery) Clone() *InsertQuery { return q.clone() }

// TableName returns the target table name.
func (q *InsertQuery) TableName() string { return q.table }

// Set appends a "column, value" pair to the current row.
func (q *InsertQuery) Set(column string, value any) *InsertQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	if len(c.rows) == 0 {
		c.rows = append(c.rows, nil)
	}
	last := len(c.rows) - 1
	c.rows[last] = append(c.rows[last], assignment{column: column, value: value})
	return c
}

// NextRow finalizes the current row and starts a new one.
func (q *InsertQuery) NextRow() *InsertQuery {
	c := q.clone()
	if c.err != nil {
		return c
	}
	c.rows = append(c.rows, nil)
	return c
}

// ToSQL renders "INSERT INTO <table> (<columns>) VALUES (...), (...)".
func (q *InsertQuery) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	if q.err != nil {
		return "", q.err
	}
	if q.table == "" {
		return "", ErrNoTable
	}
	if len(q.rows) == 0 || len(q.rows[0]) == 0 {
		return "", fmt.Errorf("INSERT requires at least one value")
	}

	first := q.rows[0]
	columns := make([]string, len(first))
	for i, a := range first {
		columns[i] = f.EscapeColumn(a.column)
	}

	valueSets := make([]string, 0, len(q.rows))
	for i, row := range q.rows {
		if len(row) != len(first) {
			return "", fmt.Errorf("INSERT row %d has %d values, want %d", i+1, len(row), len(first))
		}
		values := make([]string, len(row))
		for j, a := range row {
			values[j] = formatValue(a.value)
		}
		valueSets = append(valueSets, "("+strings.Join(values, ", ")+")")
	}

	return "INSERT INTO " + f.EscapeTable(q.table) +
		" (" + strings.Join(columns, ", ") + ") VALUES " +
		strings.Join(valueSets, ", "), nil
}

// String renders with the default flavor, folding errors into the output.
func (q *InsertQuery) String() string {
	sql, err := q.ToSQL()
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return sql
}

func (q *InsertQuery) encode() map[string]any {
	rows := make([][]map[string]any, len(q.rows))
	for i, row := range q.rows {
		rows[i] = make([]map[string]any, len(row))
		for j, a := range row {
			rows[i][j] = map[string]any{"column": a.column, "value": a.value}
		}
	}
	return map[string]any{"type": tagInsert, "table": q.table, "rows": rows}
}

// MarshalJSON encodes the statement as a type-tagged JSON object.
func (q *InsertQuery) MarshalJSON() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return json.Marshal(q.encode())
}

// Serialize returns the statement encoded as a JSON string.
func (q *InsertQuery) Serialize() (string, error) { return serializeNode(q) }
