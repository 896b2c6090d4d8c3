package fluentsql

import "encoding/json"

// JoinKind selects the SQL join type.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
	RightJoin JoinKind = "RIGHT JOIN"
	FullJoin  JoinKind = "FULL JOIN"
)

// Join pairs a table with an optional ON condition and a join kind.
// A Join without a condition renders unconditionally (cross-join semantics).
type Join struct {
	table *Table
	on    Condition
	kind  JoinKind
}

// Table returns the joined table.
func (j *Join) Table() *Table { return j.table.clone() }

// Kind returns the join kind.
func (j *Join) Kind() JoinKind { return j.kind }

// ToSQL renders "<KIND> <table>[ ON <condition>]".
func (j *Join) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	table, err := j.table.ToSQL(f)
	if err != nil {
		return "", err
	}
	sql := string(j.kind) + " " + table
	if j.on != nil {
		sql += " ON " + j.on.ToSQL(f)
	}
	return sql, nil
}

func (j *Join) clone() *Join {
	cp := &Join{table: j.table.clone(), kind: j.kind}
	if j.on != nil {
		cp.on = j.on.clone()
	}
	return cp
}

// Clone returns a deep copy of the join.
func (j *Join) Clone() *Join { return j.clone() }

func (j *Join) encode() map[string]any {
	m := map[string]any{"type": tagJoin, "table": j.table, "kind": string(j.kind)}
	if j.on != nil {
		m["condition"] = j.on
	}
	return m
}

// MarshalJSON encodes the join as a type-tagged JSON object.
func (j *Join) MarshalJSON() ([]byte, error) { return json.Marshal(j.encode()) }

// Serialize returns the join encoded as a JSON string.
func (j *Join) Serialize() (string, error) { return serializeNode(j) }
